package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

func TestAggregate_SortsAndScales(t *testing.T) {
	calib := entity.NewCalibration(20, 90, 20, 10, 0, 100)
	bars := []entity.Bar{
		{X: 100, HeightPixels1: 60, HeightPixels2: 60},
		{X: 40, HeightPixels1: 40, HeightPixels2: 32},
	}

	result, err := Aggregate(bars, calib)
	require.NoError(t, err)
	require.Len(t, result.Bars, 2)

	first, second := result.Bars[0], result.Bars[1]
	require.Equal(t, 1, first.Index)
	require.Equal(t, 40, first.X)
	require.InDelta(t, 50.0, first.ActualValue1, 1e-9)
	require.InDelta(t, 40.0, first.ActualValue2, 1e-9)

	require.Equal(t, 2, second.Index)
	require.InDelta(t, 75.0, second.ActualValue1, 1e-9)
	// Одинаковые высоты: второе значение обнуляется.
	require.Equal(t, 0.0, second.ActualValue2)

	require.InDelta(t, 125.0, result.Total1, 1e-9)
	require.InDelta(t, 40.0, result.Total2, 1e-9)

	// Исходный срез не меняется.
	require.Equal(t, 100, bars[0].X)
	require.Equal(t, 0, bars[0].Index)
}

func TestAggregate_TotalsMatchSums(t *testing.T) {
	calib := entity.NewCalibration(5, 400, 7, 100, 10, 70)
	bars := []entity.Bar{
		{X: 300, HeightPixels1: 13, HeightPixels2: 17},
		{X: 12, HeightPixels1: 250, HeightPixels2: 249},
		{X: 150, HeightPixels1: 99, HeightPixels2: 99},
		{X: 151, HeightPixels1: 1, HeightPixels2: 2},
	}

	result, err := Aggregate(bars, calib)
	require.NoError(t, err)

	var sum1, sum2 float64
	for i, bar := range result.Bars {
		if i > 0 {
			require.Less(t, result.Bars[i-1].X, bar.X)
		}
		require.Greater(t, bar.HeightPixels1, 0)
		require.Greater(t, bar.HeightPixels2, 0)
		sum1 += bar.ActualValue1
		sum2 += bar.ActualValue2
	}
	require.InDelta(t, sum1, result.Total1, 1e-9)
	require.InDelta(t, sum2, result.Total2, 1e-9)
}

func TestAggregate_BaselineOffset(t *testing.T) {
	calib := entity.NewCalibration(20, 90, 20, 10, 100, 0)
	result, err := Aggregate([]entity.Bar{{X: 1, HeightPixels1: 40, HeightPixels2: 20}}, calib)
	require.NoError(t, err)
	require.InDelta(t, 50.0, result.Bars[0].ActualValue1, 1e-9)
	require.InDelta(t, 75.0, result.Bars[0].ActualValue2, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	result, err := Aggregate(nil, entity.NewCalibration(20, 90, 20, 10, 0, 100))
	require.NoError(t, err)
	require.Empty(t, result.Bars)
	require.Equal(t, 0.0, result.Total1)
	require.Equal(t, 0.0, result.Total2)
}

func TestAggregate_DivisionByZero(t *testing.T) {
	_, err := Aggregate(nil, entity.NewCalibration(20, 50, 20, 50, 0, 100))
	require.Error(t, err)
	require.True(t, apperrors.IsKind(err, apperrors.KindDivisionByZero))
}
