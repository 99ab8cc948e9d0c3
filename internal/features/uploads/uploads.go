// Package uploads сохраняет загружаемые картинки профиля на диск.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ProfileImagesDir — подкаталог каталога загрузок для картинок профиля.
const ProfileImagesDir = "profile-images"

// Разрешённые расширения файлов.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// ErrFileTooLarge — файл превышает допустимый размер.
var ErrFileTooLarge = errors.New("файл превышает допустимый размер")

// ErrBadExtension — расширение файла не входит в список разрешённых.
var ErrBadExtension = errors.New("недопустимое расширение файла")

// Service сохраняет файлы в каталог загрузок.
type Service struct {
	dir      string
	maxBytes int64
}

// NewService создаёт сервис загрузок и каталог под них.
func NewService(dir string, maxBytes int64) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога загрузок: %w", err)
	}
	return &Service{dir: dir, maxBytes: maxBytes}, nil
}

// Dir возвращает каталог загрузок.
func (s *Service) Dir() string {
	return s.dir
}

// ValidateName проверяет расширение исходного имени файла.
func (s *Service) ValidateName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrBadExtension
	}
	return nil
}

// Save сохраняет содержимое под случайным именем, сохраняя расширение
// исходного файла. Возвращает имя сохранённого файла.
func (s *Service) Save(filename string, size int64, src io.Reader) (string, error) {
	if size > s.maxBytes {
		return "", ErrFileTooLarge
	}
	if err := s.ValidateName(filename); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла: %w", err)
	}
	defer dst.Close()

	// LimitReader страхует от лживого заявленного размера.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("ошибка записи файла: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return name, nil
}
