package vision

import (
	apperrors "chart-digitizer/internal/errors"
)

// Histogram считает 256-корзинную гистограмму яркостей.
func Histogram(pixels []byte) [256]int {
	var hist [256]int
	for _, v := range pixels {
		hist[v]++
	}
	return hist
}

// BackgroundThreshold находит яркость фона (пик гистограммы, при равенстве
// берётся меньшая яркость) и возвращает порог на offset ниже него.
// Пиксели строго темнее порога считаются столбцами.
func BackgroundThreshold(hist [256]int, offset int) (int, error) {
	total := 0
	peak := 0
	for i, count := range hist {
		total += count
		if count > hist[peak] {
			peak = i
		}
	}
	if total == 0 {
		return 0, apperrors.NewEmptyROIError("roi contains no pixels to sample")
	}

	threshold := peak - offset
	if threshold < 0 {
		threshold = 0
	}
	return threshold, nil
}
