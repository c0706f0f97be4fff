package container

import (
	"fmt"
	"time"

	"chart-digitizer/config"
	app "chart-digitizer/internal/application"
	"chart-digitizer/internal/domain/port"
	"chart-digitizer/internal/infrastructure/storage"
)

type Container struct {
	UserService         *app.UserService
	DigitizationService *app.DigitizationService
}

func New(userRepo port.UserRepository, digitizer port.ChartDigitizer, analyses port.AnalysisRepository, sink port.ArtifactSink, timeout time.Duration) *Container {
	userService := app.NewUserService(userRepo)
	digitizationService := app.NewDigitizationService(userService, digitizer, sink, analyses, timeout)

	return &Container{
		UserService:         userService,
		DigitizationService: digitizationService,
	}
}

// NewArtifactSink выбирает хранилище размеченных изображений по конфигурации
func NewArtifactSink(cfg *config.Config) (port.ArtifactSink, error) {
	switch cfg.StorageBackend {
	case config.StorageAzure:
		sink, err := storage.NewAzureArtifactSink(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.AzureStorageContainer)
		if err != nil {
			return nil, fmt.Errorf("azure sink: %w", err)
		}
		return sink, nil
	case config.StorageLocal, "":
		return storage.NewLocalArtifactSink(cfg.MediaRoot, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
