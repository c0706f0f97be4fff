package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
	"chart-digitizer/internal/infrastructure/storage"
)

type fakeDigitizer struct {
	result *entity.DigitizationResult
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeDigitizer) Digitize(ctx context.Context, imageData []byte, calib entity.Calibration) (*entity.DigitizationResult, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	return &res, nil
}

type fakeSink struct {
	saved   map[string][]byte
	deleted []string
	err     error
}

func newFakeSink() *fakeSink {
	return &fakeSink{saved: make(map[string][]byte)}
}

func (f *fakeSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved[name] = data
	return "/media/analyzed/" + name, nil
}

func (f *fakeSink) Delete(ctx context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func sampleResult() *entity.DigitizationResult {
	return &entity.DigitizationResult{
		Bars: []entity.Bar{
			{Index: 1, X: 40, HeightPixels1: 40, HeightPixels2: 40, ActualValue1: 50},
			{Index: 2, X: 100, HeightPixels1: 60, HeightPixels2: 60, ActualValue1: 75},
		},
		Total1:         125,
		AnnotatedImage: []byte{0xFF, 0xD8},
	}
}

func newTestService(d *fakeDigitizer, sink *fakeSink, timeout time.Duration) (*DigitizationService, *UserService) {
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewDigitizationService(users, d, sink, storage.NewMemoryAnalysisRepository(), timeout)
	svc.newID = func() string { return "abc" }
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, users
}

var validCalib = entity.NewCalibration(20, 90, 20, 10, 0, 100)

func TestDigitizationService_Digitize(t *testing.T) {
	sink := newFakeSink()
	svc, _ := newTestService(&fakeDigitizer{result: sampleResult()}, sink, time.Second)
	ctx := context.Background()

	analysis, err := svc.Digitize(ctx, DigitizeRequest{UserID: 7, Title: "Sales", Image: []byte("img"), Calibration: validCalib})
	require.NoError(t, err)
	require.Equal(t, "abc", analysis.ID)
	require.Equal(t, "Sales", analysis.Title)
	require.Equal(t, "/media/analyzed/analyzed_abc.jpg", analysis.AnnotatedRef)
	require.Equal(t, "/media/analyzed/analyzed_abc.jpg", analysis.Result.AnnotatedRef)
	require.Contains(t, sink.saved, "analyzed_abc.jpg")

	stored, err := svc.Get(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, stored.Result.Bars, 2)

	list, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDigitizationService_DefaultTitle(t *testing.T) {
	svc, _ := newTestService(&fakeDigitizer{result: sampleResult()}, newFakeSink(), 0)

	analysis, err := svc.Digitize(context.Background(), DigitizeRequest{Image: []byte("img"), Calibration: validCalib})
	require.NoError(t, err)
	require.Equal(t, entity.DefaultAnalysisTitle, analysis.Title)
}

func TestDigitizationService_RejectsInvalidCalibration(t *testing.T) {
	d := &fakeDigitizer{result: sampleResult()}
	svc, _ := newTestService(d, newFakeSink(), time.Second)

	_, err := svc.Digitize(context.Background(), DigitizeRequest{
		Image:       []byte("img"),
		Calibration: entity.NewCalibration(20, 90, 200, 10, 0, 100),
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	require.Zero(t, d.calls)
}

func TestDigitizationService_PropagatesCoreErrors(t *testing.T) {
	d := &fakeDigitizer{err: apperrors.NewEmptyROIError("roi is empty")}
	svc, _ := newTestService(d, newFakeSink(), time.Second)

	_, err := svc.Digitize(context.Background(), DigitizeRequest{Image: []byte("img"), Calibration: validCalib})
	require.True(t, apperrors.IsKind(err, apperrors.KindEmptyROI))
}

func TestDigitizationService_Timeout(t *testing.T) {
	d := &fakeDigitizer{result: sampleResult(), delay: 200 * time.Millisecond}
	svc, _ := newTestService(d, newFakeSink(), 10*time.Millisecond)

	_, err := svc.Digitize(context.Background(), DigitizeRequest{Image: []byte("img"), Calibration: validCalib})
	require.True(t, apperrors.IsKind(err, apperrors.KindTimeout))
}

func TestDigitizationService_SinkFailure(t *testing.T) {
	sink := newFakeSink()
	sink.err = errors.New("disk full")
	svc, _ := newTestService(&fakeDigitizer{result: sampleResult()}, sink, time.Second)

	_, err := svc.Digitize(context.Background(), DigitizeRequest{Image: []byte("img"), Calibration: validCalib})
	require.True(t, apperrors.IsKind(err, apperrors.KindProcessing))

	_, err = svc.Get(context.Background(), "abc")
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDigitizationService_PendingFlow(t *testing.T) {
	svc, users := newTestService(&fakeDigitizer{result: sampleResult()}, newFakeSink(), time.Second)
	ctx := context.Background()

	_, err := svc.DigitizePending(ctx, 1, 10, validCalib)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	user, err := svc.AcceptChart(ctx, 1, 10, []byte("img"))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingCalibration, user.State)
	require.True(t, svc.HasPending(1))

	_, err = svc.DigitizePending(ctx, 1, 10, entity.NewCalibration(20, 90, 20, 85, 0, 100))
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	require.True(t, svc.HasPending(1))

	analysis, err := svc.DigitizePending(ctx, 1, 10, validCalib)
	require.NoError(t, err)
	require.Equal(t, int64(1), analysis.UserID)
	require.False(t, svc.HasPending(1))

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, analysis.ID, user.LastAnalysisID)
}

func TestDigitizationService_PendingProcessingErrorDropsChart(t *testing.T) {
	d := &fakeDigitizer{err: apperrors.NewImageLoadError("cannot decode image", nil)}
	svc, users := newTestService(d, newFakeSink(), time.Second)
	ctx := context.Background()

	_, err := svc.AcceptChart(ctx, 5, 50, []byte("not an image"))
	require.NoError(t, err)

	_, err = svc.DigitizePending(ctx, 5, 50, validCalib)
	require.True(t, apperrors.IsKind(err, apperrors.KindImageLoad))
	require.False(t, svc.HasPending(5))

	user, err := users.Get(ctx, 5, 50)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestDigitizationService_CancelPending(t *testing.T) {
	svc, _ := newTestService(&fakeDigitizer{result: sampleResult()}, newFakeSink(), time.Second)
	ctx := context.Background()

	_, err := svc.AcceptChart(ctx, 3, 30, []byte("img"))
	require.NoError(t, err)

	user, err := svc.CancelPending(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.False(t, svc.HasPending(3))
}

func TestDigitizationService_Delete(t *testing.T) {
	sink := newFakeSink()
	svc, _ := newTestService(&fakeDigitizer{result: sampleResult()}, sink, time.Second)
	ctx := context.Background()

	_, err := svc.Digitize(ctx, DigitizeRequest{Image: []byte("img"), Calibration: validCalib})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "abc"))
	require.Equal(t, []string{"/media/analyzed/analyzed_abc.jpg"}, sink.deleted)

	err = svc.Delete(ctx, "abc")
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
