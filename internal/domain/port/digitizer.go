package port

import (
	"context"

	"chart-digitizer/internal/domain/entity"
)

// ChartDigitizer интерфейс оцифровщика столбчатых диаграмм
type ChartDigitizer interface {
	// Digitize измеряет столбцы и возвращает результат с размеченным изображением
	Digitize(ctx context.Context, imageData []byte, calib entity.Calibration) (*entity.DigitizationResult, error)
}
