package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"chart-digitizer/internal/domain/port"
)

// AzureArtifactSink сохраняет размеченные изображения в контейнер Azure Blob Storage
type AzureArtifactSink struct {
	client    *azblob.Client
	container string
}

// NewAzureArtifactSink создаёт клиент по имени аккаунта и ключу
func NewAzureArtifactSink(accountName, accountKey, container string) (*AzureArtifactSink, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &AzureArtifactSink{client: client, container: container}, nil
}

// Save загружает байты в blob и возвращает его URL
func (s *AzureArtifactSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	blobName := path.Join(analyzedDir, path.Base(name))
	_, err := s.client.UploadBuffer(ctx, s.container, blobName, data, &azblob.UploadBufferOptions{})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return strings.TrimSuffix(s.client.URL(), "/") + "/" + s.container + "/" + blobName, nil
}

// Delete удаляет blob по URL, который вернул Save
func (s *AzureArtifactSink) Delete(ctx context.Context, ref string) error {
	blobName, err := s.blobName(ref)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteBlob(ctx, s.container, blobName, nil); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// blobName вырезает имя blob из URL вида https://<acc>.blob.core.windows.net/<container>/<blob>
func (s *AzureArtifactSink) blobName(ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid blob URL: %w", err)
	}

	prefix := "/" + s.container + "/"
	if !strings.HasPrefix(parsed.Path, prefix) {
		return "", fmt.Errorf("blob URL %q is outside container %q", ref, s.container)
	}
	return strings.TrimPrefix(parsed.Path, prefix), nil
}

var _ port.ArtifactSink = (*AzureArtifactSink)(nil)
