package port

import "context"

// ArtifactSink хранилище размеченных изображений
type ArtifactSink interface {
	// Save сохраняет байты под именем и возвращает ссылку на них
	Save(ctx context.Context, name string, data []byte) (string, error)

	// Delete удаляет ранее сохранённый артефакт по ссылке
	Delete(ctx context.Context, ref string) error
}
