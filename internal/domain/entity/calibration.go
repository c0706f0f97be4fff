package entity

import (
	"fmt"
	"math"

	apperrors "chart-digitizer/internal/errors"
)

const (
	// MaxAxisDriftX допустимое расхождение точек калибровки по X
	MaxAxisDriftX = 50
	// MinAxisSpanY минимальное расстояние между точками калибровки по Y
	MinAxisSpanY = 10
)

// CalibrationPoint точка на оси значений с известным значением
type CalibrationPoint struct {
	X     int `json:"x"`     // координата X в пикселях
	Y     int `json:"y"`     // координата Y в пикселях
	Value int `json:"value"` // значение на оси в этой точке
}

// Calibration пара точек: базовая линия и опорная точка
type Calibration struct {
	Baseline  CalibrationPoint `json:"baseline"`
	Reference CalibrationPoint `json:"reference"`
}

// NewCalibration собирает калибровку из координат формы
func NewCalibration(x1, y1, x2, y2, p1Value, p2Value int) Calibration {
	return Calibration{
		Baseline:  CalibrationPoint{X: x1, Y: y1, Value: p1Value},
		Reference: CalibrationPoint{X: x2, Y: y2, Value: p2Value},
	}
}

// AxisX возвращает X вертикальной оси графика
func (c Calibration) AxisX() int {
	return int(math.Round(float64(c.Baseline.X+c.Reference.X) / 2))
}

// Scale возвращает цену одного пикселя по вертикали
func (c Calibration) Scale() (float64, error) {
	span := absInt(c.Baseline.Y - c.Reference.Y)
	if span == 0 {
		return 0, apperrors.NewDivisionByZeroError("calibration points share the same y coordinate")
	}
	return float64(c.Reference.Value-c.Baseline.Value) / float64(span), nil
}

// ValueAt переводит координату Y в значение на оси
func (c Calibration) ValueAt(y int) (float64, error) {
	scale, err := c.Scale()
	if err != nil {
		return 0, err
	}
	return float64(c.Baseline.Value) + float64(c.Baseline.Y-y)*scale, nil
}

// Validate проверяет геометрию точек так же, как форма загрузки
func (c Calibration) Validate() error {
	points := []int{c.Baseline.X, c.Baseline.Y, c.Reference.X, c.Reference.Y}
	for _, v := range points {
		if v < 0 {
			return apperrors.NewValidationError("calibration coordinates must be non-negative", nil)
		}
	}
	if drift := absInt(c.Baseline.X - c.Reference.X); drift > MaxAxisDriftX {
		return apperrors.NewValidationError(
			fmt.Sprintf("points must be vertically aligned (x-difference %d > %dpx)", drift, MaxAxisDriftX), nil)
	}
	if span := absInt(c.Baseline.Y - c.Reference.Y); span < MinAxisSpanY {
		return apperrors.NewValidationError(
			fmt.Sprintf("points must be vertically separated by >= %dpx (got %d)", MinAxisSpanY, span), nil)
	}
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
