package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempUploadStorage keeps uploaded import files until the request that owns
// them is done.
type TempUploadStorage struct {
	uploadPath string
}

func NewTempUploadStorage(uploadPath string) *TempUploadStorage {
	return &TempUploadStorage{uploadPath: uploadPath}
}

func (s *TempUploadStorage) Dir() string {
	return s.uploadPath
}

// SaveMultipart copies an uploaded file under a unique name. The original
// extension is kept so the reader can be chosen from it.
func (s *TempUploadStorage) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.SaveReader(src, filepath.Ext(fh.Filename))
}

// SaveReader handles uploads from any io.Reader
func (s *TempUploadStorage) SaveReader(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filePath := filepath.Join(s.uploadPath, uuid.NewString()+strings.ToLower(ext))
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Clean up on error
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return filePath, nil
}

// Remove deletes a saved upload. A file that is already gone is not an error.
func (s *TempUploadStorage) Remove(filePath string) error {
	err := os.Remove(filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SweepStale removes uploads older than ttl and reports how many went.
func (s *TempUploadStorage) SweepStale(ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading upload directory: %w", err)
	}

	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if time.Since(info.ModTime()) <= ttl {
			continue
		}
		if err := s.Remove(filepath.Join(s.uploadPath, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
