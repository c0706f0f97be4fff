//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
	apperrors "chart-digitizer/internal/errors"
)

type GoCVDigitizer struct {
	Params
}

// NewGoCVDigitizer создаёт оцифровщик-заглушку (без OpenCV).
func NewGoCVDigitizer() *GoCVDigitizer {
	return &GoCVDigitizer{Params: DefaultParams()}
}

// Digitize возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDigitizer) Digitize(ctx context.Context, imageData []byte, calib entity.Calibration) (*entity.DigitizationResult, error) {
	_ = ctx
	_ = imageData
	_ = calib
	return nil, apperrors.NewProcessingError("digitizer unavailable", errors.New("gocv build tag is not enabled"))
}

var _ port.ChartDigitizer = (*GoCVDigitizer)(nil)
