package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	EnsureDirs() error
	CreateBatchDir(taskID string) (string, error)
	SaveToDir(file *multipart.FileHeader, dir string) (string, error)
	ArchiveResume(srcPath string) (string, error)
	RemoveDir(dir string)
	ResumeDir() string
}

type storageService struct {
	resumePath   string
	tempBulkPath string
}

func NewStorageService(resumePath, tempBulkPath string) StorageService {
	return &storageService{
		resumePath:   resumePath,
		tempBulkPath: tempBulkPath,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.resumePath, s.tempBulkPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreateBatchDir makes an isolated directory for one intake batch, keyed by
// task id so no two batches ever share storage.
func (s *storageService) CreateBatchDir(taskID string) (string, error) {
	dir := filepath.Join(s.tempBulkPath, taskID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create batch directory: %w", err)
	}
	return dir, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w.-]`)

// SanitizeFilename replaces anything outside [A-Za-z0-9_.-] so uploaded
// names are safe to use as filesystem paths and placeholder email parts.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func (s *storageService) SaveToDir(file *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".docx", ".doc", ".txt", ".md", ".rtf", ".odt":
	default:
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}

	filePath := filepath.Join(dir, SanitizeFilename(file.Filename))

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

// ArchiveResume copies a batch file into the permanent resume directory
// under a collision-proof name, so it survives batch cleanup.
func (s *storageService) ArchiveResume(srcPath string) (string, error) {
	destName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], SanitizeFilename(filepath.Base(srcPath)))
	destPath := filepath.Join(s.resumePath, destName)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open resume file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to archive resume: %w", err)
	}

	return destPath, nil
}

// RemoveDir deletes a batch directory and everything in it. Cleanup failures
// are logged, not returned; the batch outcome never depends on them.
func (s *storageService) RemoveDir(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("⚠️  Failed to clean up directory %s: %v\n", dir, err)
		return
	}
	log.Printf("🧹 Cleaned up directory: %s\n", dir)
}

func (s *storageService) ResumeDir() string {
	return s.resumePath
}
