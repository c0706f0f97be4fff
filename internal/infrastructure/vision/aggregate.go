package vision

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"chart-digitizer/internal/domain/entity"
)

// Aggregate сортирует столбцы слева направо, переводит высоты в значения
// и считает итоги. Если обе высоты дают одно значение, второе обнуляется.
func Aggregate(bars []entity.Bar, calib entity.Calibration) (*entity.DigitizationResult, error) {
	scale, err := calib.Scale()
	if err != nil {
		return nil, err
	}

	sorted := make([]entity.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	base := float64(calib.Baseline.Value)
	values1 := make([]float64, len(sorted))
	values2 := make([]float64, len(sorted))
	for i := range sorted {
		bar := &sorted[i]
		bar.Index = i + 1
		bar.ActualValue1 = base + float64(bar.HeightPixels1)*scale
		bar.ActualValue2 = base + float64(bar.HeightPixels2)*scale
		if bar.ActualValue1 == bar.ActualValue2 {
			bar.ActualValue2 = 0
		}
		values1[i] = bar.ActualValue1
		values2[i] = bar.ActualValue2
	}

	return &entity.DigitizationResult{
		Bars:   sorted,
		Total1: floats.Sum(values1),
		Total2: floats.Sum(values2),
	}, nil
}
