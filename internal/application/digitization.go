package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
	apperrors "chart-digitizer/internal/errors"
	"chart-digitizer/internal/logger"
)

type DigitizationService struct {
	users     *UserService
	digitizer port.ChartDigitizer
	sink      port.ArtifactSink
	analyses  port.AnalysisRepository
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
	pending   map[int64][]byte
	mu        sync.RWMutex
}

// DigitizeRequest входные данные одного анализа.
type DigitizeRequest struct {
	UserID      int64
	Title       string
	ImageName   string
	Image       []byte
	Calibration entity.Calibration
}

// NewDigitizationService создаёт сервис, который управляет оцифровкой диаграмм.
// timeout ограничивает один запуск конвейера, 0 отключает ограничение.
func NewDigitizationService(users *UserService, digitizer port.ChartDigitizer, sink port.ArtifactSink, analyses port.AnalysisRepository, timeout time.Duration) *DigitizationService {
	return &DigitizationService{
		users:     users,
		digitizer: digitizer,
		sink:      sink,
		analyses:  analyses,
		timeout:   timeout,
		now:       time.Now,
		newID:     uuid.NewString,
		pending:   make(map[int64][]byte),
	}
}

// Digitize проверяет калибровку, оцифровывает диаграмму, сохраняет разметку и запись анализа.
func (s *DigitizationService) Digitize(ctx context.Context, req DigitizeRequest) (*entity.Analysis, error) {
	if s.digitizer == nil {
		return nil, apperrors.NewProcessingError("digitizer is not configured", nil)
	}
	if err := req.Calibration.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.run(ctx, req.Image, req.Calibration)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	if s.sink != nil {
		ref, err := s.sink.Save(ctx, "analyzed_"+id+".jpg", result.AnnotatedImage)
		if err != nil {
			return nil, apperrors.NewProcessingError("failed to store annotated image", err)
		}
		result.AnnotatedRef = ref
	}

	analysis := entity.NewAnalysis(id, req.UserID, req.Title, req.Calibration, result, s.now())
	if err := s.analyses.Save(ctx, analysis); err != nil {
		return nil, apperrors.NewProcessingError("failed to save analysis", err)
	}
	if req.UserID != 0 {
		if _, err := s.users.RecordAnalysis(ctx, req.UserID, 0, id); err != nil {
			logger.WithError(err).WithField("user_id", req.UserID).Warn("Failed to record analysis for user")
		}
	}

	logger.WithFields(logrus.Fields{
		"analysis_id":        id,
		"user_id":            req.UserID,
		"image":              req.ImageName,
		"bars":               len(result.Bars),
		"total1":             result.Total1,
		"total2":             result.Total2,
		"processing_time_ms": s.now().Sub(start).Milliseconds(),
	}).Info("Chart digitized")

	return analysis, nil
}

// run запускает конвейер в отдельной горутине: сам конвейер отмену не поддерживает,
// поэтому по истечении времени его результат просто отбрасывается.
func (s *DigitizationService) run(ctx context.Context, image []byte, calib entity.Calibration) (*entity.DigitizationResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type outcome struct {
		result *entity.DigitizationResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.digitizer.Digitize(ctx, image, calib)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("analysis timed out", ctx.Err())
		}
		return nil, apperrors.NewProcessingError("analysis cancelled", ctx.Err())
	}
}

// AcceptChart запоминает диаграмму без калибровки и ждёт точки от пользователя.
func (s *DigitizationService) AcceptChart(ctx context.Context, userID, chatID int64, image []byte) (*entity.User, error) {
	s.mu.Lock()
	s.pending[userID] = image
	s.mu.Unlock()
	return s.users.AwaitCalibration(ctx, userID, chatID)
}

// DigitizePending оцифровывает ранее присланную диаграмму.
// При ошибке калибровки диаграмма остаётся, чтобы пользователь мог исправить точки.
func (s *DigitizationService) DigitizePending(ctx context.Context, userID, chatID int64, calib entity.Calibration) (*entity.Analysis, error) {
	s.mu.RLock()
	image, ok := s.pending[userID]
	s.mu.RUnlock()
	if !ok || len(image) == 0 {
		return nil, apperrors.NewValidationError("chart image is not found", nil)
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	analysis, err := s.Digitize(ctx, DigitizeRequest{UserID: userID, Image: image, Calibration: calib})
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindValidation) {
			_, _ = s.users.AwaitCalibration(ctx, userID, chatID)
			return nil, err
		}
		s.dropPending(userID)
		_, _ = s.users.Cancel(ctx, userID, chatID)
		return nil, err
	}

	s.dropPending(userID)
	return analysis, nil
}

// CancelPending сбрасывает диаграмму и возвращает пользователя в главное меню.
func (s *DigitizationService) CancelPending(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.dropPending(userID)
	return s.users.Cancel(ctx, userID, chatID)
}

// HasPending сообщает, ждёт ли диаграмма пользователя калибровки.
func (s *DigitizationService) HasPending(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[userID]
	return ok
}

func (s *DigitizationService) dropPending(userID int64) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
}

// Get возвращает сохранённый анализ.
func (s *DigitizationService) Get(ctx context.Context, id string) (*entity.Analysis, error) {
	return s.analyses.Get(ctx, id)
}

// List возвращает анализы пользователя, новые первыми.
func (s *DigitizationService) List(ctx context.Context, userID int64) ([]*entity.Analysis, error) {
	return s.analyses.List(ctx, userID)
}

// Delete удаляет анализ вместе с размеченным изображением.
func (s *DigitizationService) Delete(ctx context.Context, id string) error {
	analysis, err := s.analyses.Get(ctx, id)
	if err != nil {
		return err
	}

	if s.sink != nil && analysis.AnnotatedRef != "" {
		if err := s.sink.Delete(ctx, analysis.AnnotatedRef); err != nil {
			logger.WithError(err).WithField("analysis_id", id).Warn("Failed to delete annotated image")
		}
	}
	return s.analyses.Delete(ctx, id)
}
