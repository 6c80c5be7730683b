package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// StorageService owns the inbox/processed directories resumes move
// through. Files keep their submitted names because the filename is
// the candidate's source identifier.
type StorageService interface {
	SaveToInbox(file *multipart.FileHeader) (string, error)
	InboxPath(filename string) string
	MoveToProcessed(filename string) error
	EnsureDirs() error
}

type storageService struct {
	inboxPath     string
	processedPath string
}

func NewStorageService(inboxPath, processedPath string) StorageService {
	return &storageService{
		inboxPath:     inboxPath,
		processedPath: processedPath,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.inboxPath, s.processedPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SaveToInbox implements StorageService.
func (s *storageService) SaveToInbox(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	filePath := filepath.Join(s.inboxPath, filepath.Base(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) InboxPath(filename string) string {
	return filepath.Join(s.inboxPath, filepath.Base(filename))
}

// MoveToProcessed implements StorageService. Moving the file out of
// the inbox is what prevents head-of-line blocking on a bad document.
func (s *storageService) MoveToProcessed(filename string) error {
	base := filepath.Base(filename)
	src := filepath.Join(s.inboxPath, base)
	dst := filepath.Join(s.processedPath, base)

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to processed: %w", base, err)
	}
	return nil
}
