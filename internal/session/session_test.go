package session

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager("test-signing-key", time.Hour)

	token, err := manager.Issue("user1", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	sess, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if sess.UserId != "user1" {
		t.Errorf("Expected user id user1, got %s", sess.UserId)
	}
	if !sess.IsAdmin() {
		t.Error("Expected admin session")
	}
}

func TestVerify_WrongKey(t *testing.T) {
	token, err := NewManager("key-one", time.Hour).Issue("user1", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewManager("key-two", time.Hour).Verify(token); err == nil {
		t.Fatal("Expected verification to fail with wrong key")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	manager := NewManager("test-signing-key", -time.Minute)

	token, err := manager.Issue("user1", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := manager.Verify(token); err == nil {
		t.Fatal("Expected verification to fail for expired token")
	}
}

func TestVerify_Garbage(t *testing.T) {
	manager := NewManager("test-signing-key", time.Hour)
	if _, err := manager.Verify("not.a.token"); err == nil {
		t.Fatal("Expected verification to fail for malformed token")
	}
}

func TestIsAdmin(t *testing.T) {
	if (Session{Role: "user"}).IsAdmin() {
		t.Error("Expected user role to not be admin")
	}
	if !(Session{Role: "admin"}).IsAdmin() {
		t.Error("Expected admin role to be admin")
	}
}
