package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
	apperrors "chart-digitizer/internal/errors"
)

// MemoryUserRepository хранит пользователей по значению, наружу отдаёт копии.
// Бот и HTTP API работают параллельно, поэтому общий *User между ними не передаётся.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = *entity.NewUser(userID, chatID)
	} else if chatID != 0 && user.ChatID != chatID {
		user.ChatID = chatID
	}
	r.users[userID] = user

	return &user, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}

	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", userID), nil)
	}
	user.SetState(state)
	r.users[userID] = user

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
