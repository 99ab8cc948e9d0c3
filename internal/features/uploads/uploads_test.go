package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, maxBytes int64) *Service {
	t.Helper()
	s, err := NewService(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return s
}

func TestSaveOK(t *testing.T) {
	s := newTestService(t, 1024)

	name, err := s.Save("avatar.PNG", 5, strings.NewReader("image"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))
}

func TestSaveUniqueNames(t *testing.T) {
	s := newTestService(t, 1024)

	n1, err := s.Save("a.jpg", 1, strings.NewReader("x"))
	require.NoError(t, err)
	n2, err := s.Save("a.jpg", 1, strings.NewReader("y"))
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}

func TestSaveRejectsBadExtension(t *testing.T) {
	s := newTestService(t, 1024)

	_, err := s.Save("malware.exe", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrBadExtension)

	_, err = s.Save("noext", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrBadExtension)
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	s := newTestService(t, 10)
	_, err := s.Save("a.png", 11, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveRejectsActualOversize(t *testing.T) {
	s := newTestService(t, 4)

	// Заявленный размер врёт, фактический больше лимита.
	_, err := s.Save("a.png", 3, strings.NewReader("12345678"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// Недописанный файл должен быть подчищен.
	entries, readErr := os.ReadDir(s.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestValidateName(t *testing.T) {
	s := newTestService(t, 10)
	assert.NoError(t, s.ValidateName("photo.jpeg"))
	assert.NoError(t, s.ValidateName("photo.GIF"))
	assert.Error(t, s.ValidateName("photo.webp"))
	assert.Error(t, s.ValidateName("doc.pdf"))
}
