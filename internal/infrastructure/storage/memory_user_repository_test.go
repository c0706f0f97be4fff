package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingChart))
	user, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingChart, user.State)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.SetState(entity.StateProcessing)

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, stored.State)

	require.NoError(t, repo.Save(ctx, user))
	stored, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
}

func TestMemoryUserRepository_UpdateStateUnknownUser(t *testing.T) {
	repo := NewMemoryUserRepository()

	err := repo.UpdateState(context.Background(), 42, entity.StateAwaitingChart)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	require.Error(t, repo.Save(context.Background(), nil))
}

func TestMemoryUserRepository_ConcurrentGet(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Get(ctx, 7, 70)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Equal(t, int64(70), user.ChatID)
}
