package port

import (
	"context"

	"chart-digitizer/internal/domain/entity"
)

// UserRepository хранит состояние диалога пользователей бота.
// Реализации возвращают копии: изменения вступают в силу только после Save.
type UserRepository interface {
	// Get возвращает пользователя, при первом обращении создаёт его в главном меню
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	Save(ctx context.Context, user *entity.User) error

	// UpdateState меняет состояние существующего пользователя, иначе NotFound
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
