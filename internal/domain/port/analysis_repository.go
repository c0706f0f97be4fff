package port

import (
	"context"

	"chart-digitizer/internal/domain/entity"
)

// AnalysisRepository интерфейс хранилища анализов
type AnalysisRepository interface {
	// Save сохраняет анализ
	Save(ctx context.Context, analysis *entity.Analysis) error

	// Get возвращает анализ по ID
	Get(ctx context.Context, id string) (*entity.Analysis, error)

	// List возвращает анализы пользователя, новые первыми; userID 0 означает всех
	List(ctx context.Context, userID int64) ([]*entity.Analysis, error)

	// Delete удаляет анализ
	Delete(ctx context.Context, id string) error
}
