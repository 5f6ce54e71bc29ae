package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/rs/zerolog/log"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FileStore owns the uploads directory. Database rows are the source of
// truth for which files should exist; the store only persists and removes
// files by name.
type FileStore struct {
	dir string
}

func CreateFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save persists an uploaded file under a generated name of the form
// {fieldname}-{timestamp}{ext} and returns that name.
func (s *FileStore) Save(fieldName string, originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", errs.ErrClient
	}

	name := fmt.Sprintf("%s-%d%s", fieldName, time.Now().UnixNano(), ext)

	dst, err := os.Create(s.Path(name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(s.Path(name))
		return "", err
	}

	return name, nil
}

// Remove deletes a stored file. A file that is already absent is not an
// error.
func (s *FileStore) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// RemoveAll is the best-effort cleanup path: failures are logged and the
// last error is returned for callers that care, but partial removal never
// aborts the loop.
func (s *FileStore) RemoveAll(names []string) error {
	var lastErr error
	for _, name := range names {
		if err := s.Remove(name); err != nil {
			log.Error().Err(err).Str("component", "RemoveAll").Str("file", name).Msg("")
			lastErr = err
		}
	}

	return lastErr
}

// SweepOrphans removes files older than minAge that are not in the
// referenced set, and returns the names it removed.
func (s *FileStore) SweepOrphans(referenced map[string]bool, minAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-minAge)
	var removed []string
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := s.Remove(entry.Name()); err != nil {
			log.Error().Err(err).Str("component", "SweepOrphans").Str("file", entry.Name()).Msg("")
			continue
		}
		removed = append(removed, entry.Name())
	}

	return removed, nil
}
