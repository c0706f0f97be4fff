package entity

import "image"

// ROI прямоугольник анализа в пикселях, правая и нижняя границы не включаются
type ROI struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Clamp обрезает область по границам изображения
func (r ROI) Clamp(width, height int) ROI {
	return ROI{
		Left:   clampInt(r.Left, 0, width),
		Right:  clampInt(r.Right, 0, width),
		Top:    clampInt(r.Top, 0, height),
		Bottom: clampInt(r.Bottom, 0, height),
	}
}

// Empty сообщает, что в области нет ни одного пикселя
func (r ROI) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Rect возвращает область как image.Rectangle
func (r ROI) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
