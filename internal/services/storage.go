package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService manages request-scoped temporary files.
type StorageService interface {
	SaveTemp(data []byte, prefix, ext string) (string, error)
	GetFilePath(filename string) string
	DeleteFile(path string) error
	EnsureTempDir() error
}

type storageService struct {
	tempPath string
}

func NewStorageService(tempPath string) StorageService {
	return &storageService{
		tempPath: tempPath,
	}
}

func (s *storageService) EnsureTempDir() error {
	if err := os.MkdirAll(s.tempPath, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	return nil
}

// SaveTemp writes data to a uniquely named file and returns its path.
func (s *storageService) SaveTemp(data []byte, prefix, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := s.GetFilePath(uniqueFilename)

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.tempPath, filename)
}

// DeleteFile removes path. A file that is already gone is not an error.
func (s *storageService) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
