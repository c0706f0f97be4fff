package storage

import (
	"context"
	"sort"
	"sync"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
	apperrors "chart-digitizer/internal/errors"
)

// MemoryAnalysisRepository in-memory хранилище анализов
type MemoryAnalysisRepository struct {
	mu       sync.RWMutex
	analyses map[string]*entity.Analysis
}

// NewMemoryAnalysisRepository создаёт новое in-memory хранилище анализов
func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{
		analyses: make(map[string]*entity.Analysis),
	}
}

// Save сохраняет анализ
func (r *MemoryAnalysisRepository) Save(ctx context.Context, analysis *entity.Analysis) error {
	r.mu.Lock()
	r.analyses[analysis.ID] = analysis
	r.mu.Unlock()

	return nil
}

// Get возвращает анализ по ID
func (r *MemoryAnalysisRepository) Get(ctx context.Context, id string) (*entity.Analysis, error) {
	r.mu.RLock()
	analysis, exists := r.analyses[id]
	r.mu.RUnlock()

	if !exists {
		return nil, apperrors.NewNotFoundError("analysis "+id+" not found", nil)
	}
	return analysis, nil
}

// List возвращает анализы пользователя, новые первыми
func (r *MemoryAnalysisRepository) List(ctx context.Context, userID int64) ([]*entity.Analysis, error) {
	r.mu.RLock()
	list := make([]*entity.Analysis, 0, len(r.analyses))
	for _, a := range r.analyses {
		if userID != 0 && a.UserID != userID {
			continue
		}
		list = append(list, a)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Delete удаляет анализ
func (r *MemoryAnalysisRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.analyses[id]; !exists {
		return apperrors.NewNotFoundError("analysis "+id+" not found", nil)
	}
	delete(r.analyses, id)
	return nil
}

// Проверка реализации интерфейса
var _ port.AnalysisRepository = (*MemoryAnalysisRepository)(nil)
