package app

import (
	"context"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// update читает пользователя, применяет fn и сохраняет результат
func (s *UserService) update(ctx context.Context, userID, chatID int64, fn func(u *entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	fn(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.SetState(state) })
}

func (s *UserService) BeginDigitize(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingChart)
}

func (s *UserService) AwaitCalibration(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingCalibration)
}

// RecordAnalysis запоминает последний анализ, chatID 0 оставляет чат прежним
func (s *UserService) RecordAnalysis(ctx context.Context, userID, chatID int64, analysisID string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.RecordAnalysis(analysisID) })
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
