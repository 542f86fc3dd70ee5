package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrAccessDenied    = errors.New("access denied")
	ErrFileNotFound    = errors.New("file not found")
)

const jdHeaderRule = "===================================="

type StorageService interface {
	EnsureDirs() error
	ListJDs() ([]string, error)
	ReadJD(filename string) (string, time.Time, error)
	SaveJD(title, experience, description string, now time.Time) (string, error)
	SaveResume(filename string, src io.Reader) (string, error)
	ResolveResume(filename string) (string, error)
	DeleteResume(filename string) error
}

type storageService struct {
	jdPath     string
	resumePath string
}

func NewStorageService(jdPath, resumePath string) StorageService {
	return &storageService{
		jdPath:     jdPath,
		resumePath: resumePath,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.jdPath, s.resumePath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return nil
}

// ListJDs returns the stored .txt job descriptions, most recently modified first.
func (s *storageService) ListJDs() ([]string, error) {
	entries, err := os.ReadDir(s.jdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description folder: %w", err)
	}

	type jdFile struct {
		name  string
		mtime time.Time
	}
	var files []jdFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, jdFile{name: entry.Name(), mtime: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].mtime.After(files[j].mtime)
	})

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return names, nil
}

func (s *storageService) ReadJD(filename string) (string, time.Time, error) {
	path, err := resolveWithin(s.jdPath, filename)
	if err != nil {
		return "", time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to stat job description: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read job description: %w", err)
	}

	return string(content), info.ModTime(), nil
}

// SaveJD writes JD_<title>_<timestamp>.txt with a short header block above the description.
func (s *storageService) SaveJD(title, experience, description string, now time.Time) (string, error) {
	base := SecureFilename(title)
	if base == "" {
		base = "job_description"
	}
	filename := fmt.Sprintf("JD_%s_%s.txt", base, now.Format("20060102_150405"))

	content := fmt.Sprintf("Job Title: %s\nExperience Required: %s\n%s\n\n%s",
		title, experience, jdHeaderRule, description)

	if err := os.WriteFile(filepath.Join(s.jdPath, filename), []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write job description: %w", err)
	}

	return filename, nil
}

// SaveResume stores an original résumé under its sanitised name, replacing any previous copy.
func (s *storageService) SaveResume(filename string, src io.Reader) (string, error) {
	secure := SecureFilename(filename)
	if secure == "" {
		return "", ErrInvalidFilename
	}

	filePath := filepath.Join(s.resumePath, secure)

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

func (s *storageService) ResolveResume(filename string) (string, error) {
	return resolveWithin(s.resumePath, filename)
}

func (s *storageService) DeleteResume(filename string) error {
	path, err := resolveWithin(s.resumePath, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolveWithin maps a requested name to an existing regular file inside dir.
// The name must already be in sanitised form.
func resolveWithin(dir, filename string) (string, error) {
	secure := SecureFilename(filename)
	if secure == "" || secure != filename {
		return "", ErrInvalidFilename
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absDir, secure))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		return "", ErrAccessDenied
	}

	info, err := os.Stat(absPath)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrFileNotFound
	}

	return absPath, nil
}
