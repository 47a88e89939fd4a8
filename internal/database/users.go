package database

import (
	"context"
	"database/sql"
	"fmt"

	"trade-desk-go/internal/models"
	"trade-desk-go/internal/store"

	"go.uber.org/zap"
)

// GetUsers returns all users ordered by creation time.
func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Id, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).
		Scan(&u.Id, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, userId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByEmail, email).
		Scan(&u.Id, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: email %s", store.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user row. Role must be "user" or "admin".
func (s *Service) CreateUser(ctx context.Context, userId, name, email, role string) (*models.User, error) {
	if role != "user" && role != "admin" {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	var u models.User
	err := s.db.QueryRowContext(ctx, queryInsertUser, userId, name, email, role).
		Scan(&u.Id, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	zap.L().Info("User created",
		zap.String("user_id", u.Id),
		zap.String("name", u.Name),
		zap.String("role", u.Role))
	return &u, nil
}
