package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists uploaded files (proof-of-payment images, wallet QR codes)
// and returns a URL the UI can reference.
type Store interface {
	Save(filename string, r io.Reader) (string, error)
}

// DiskStore writes uploads under a local directory and serves them from a
// base URL path.
type DiskStore struct {
	dir     string
	baseUrl string
}

func NewDiskStore(dir, baseUrl string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &DiskStore{
		dir:     dir,
		baseUrl: strings.TrimRight(baseUrl, "/"),
	}, nil
}

// Dir returns the directory the store writes into.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the file under a random name, keeping only the original
// extension so a crafted filename cannot escape the uploads directory.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".pdf":
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			zap.L().Warn("Failed to remove partial upload", zap.String("path", path), zap.Error(removeErr))
		}
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	zap.L().Info("Upload stored",
		zap.String("file", name),
		zap.Int64("bytes", written))
	return s.baseUrl + "/" + name, nil
}
