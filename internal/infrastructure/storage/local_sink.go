package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"chart-digitizer/internal/domain/port"
)

const analyzedDir = "analyzed"

// LocalArtifactSink сохраняет размеченные изображения в MEDIA_ROOT/analyzed
type LocalArtifactSink struct {
	root    string
	baseURL string
}

// NewLocalArtifactSink создаёт файловое хранилище с публичным префиксом ссылок
func NewLocalArtifactSink(root, baseURL string) *LocalArtifactSink {
	return &LocalArtifactSink{
		root:    root,
		baseURL: "/" + strings.Trim(baseURL, "/"),
	}
}

// Save записывает файл и возвращает ссылку вида /media/analyzed/<name>
func (s *LocalArtifactSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	_ = ctx
	name = filepath.Base(name)
	dir := filepath.Join(s.root, analyzedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return path.Join(s.baseURL, analyzedDir, name), nil
}

// Delete удаляет файл по ссылке, отсутствие файла ошибкой не считается
func (s *LocalArtifactSink) Delete(ctx context.Context, ref string) error {
	_ = ctx
	name := path.Base(ref)
	err := os.Remove(filepath.Join(s.root, analyzedDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// Root корневой каталог медиа
func (s *LocalArtifactSink) Root() string {
	return s.root
}

// BaseURL публичный префикс ссылок
func (s *LocalArtifactSink) BaseURL() string {
	return s.baseURL
}

var _ port.ArtifactSink = (*LocalArtifactSink)(nil)
