package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (StorageService, string, string) {
	t.Helper()
	root := t.TempDir()
	jdDir := filepath.Join(root, "jd")
	resumeDir := filepath.Join(root, "resumes")
	s := NewStorageService(jdDir, resumeDir)
	require.NoError(t, s.EnsureDirs())
	return s, jdDir, resumeDir
}

func TestSecureFilename(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"Résumé Jane.pdf", "Resume_Jane.pdf"},
		{"JD_backend_20240101_120000.txt", "JD_backend_20240101_120000.txt"},
		{"...", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SecureFilename(tc.in), tc.in)
	}
}

func TestStorageSaveAndListJDs(t *testing.T) {
	t.Parallel()
	s, jdDir, _ := newTestStorage(t)

	older, err := s.SaveJD("Backend Engineer", "3 years", "Go and Postgres", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "JD_Backend_Engineer_20240101_120000.txt", older)

	newer, err := s.SaveJD("Data/Analyst", "", "SQL", time.Date(2024, 2, 1, 9, 30, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "JD_Data_Analyst_20240201_093005.txt", newer)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(jdDir, older), past, past))
	require.NoError(t, os.WriteFile(filepath.Join(jdDir, "notes.md"), []byte("x"), 0644))

	list, err := s.ListJDs()
	require.NoError(t, err)
	assert.Equal(t, []string{newer, older}, list)

	content, _, err := s.ReadJD(older)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "Job Title: Backend Engineer\nExperience Required: 3 years\n===================================="))
	assert.True(t, strings.HasSuffix(content, "\n\nGo and Postgres"))
}

func TestStorageReadJDErrors(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestStorage(t)

	_, _, err := s.ReadJD("../secret.txt")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, _, err = s.ReadJD("missing.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStorageResumeLifecycle(t *testing.T) {
	t.Parallel()
	s, _, resumeDir := newTestStorage(t)

	path, err := s.SaveResume("jane doe.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resumeDir, "jane_doe.pdf"), path)

	resolved, err := s.ResolveResume("jane_doe.pdf")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe.pdf", filepath.Base(resolved))

	_, err = s.ResolveResume("jane doe.pdf")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	require.NoError(t, s.DeleteResume("jane_doe.pdf"))
	_, err = s.ResolveResume("jane_doe.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)
}
