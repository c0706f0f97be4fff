package vision

import (
	"image"

	"chart-digitizer/internal/domain/entity"
)

const (
	// baseTolerance допуск по Y при поиске опор столбца
	baseTolerance = 1
	// footRadius точки ближе этого расстояния по X считаются над опорой
	footRadius = 3
)

// FilterContours оставляет контуры, у которых ширина ограничивающего
// прямоугольника больше minWidth.
func FilterContours(contours [][]image.Point, minWidth int) [][]image.Point {
	kept := make([][]image.Point, 0, len(contours))
	for _, c := range contours {
		if len(c) == 0 {
			continue
		}
		minX, maxX := xRange(c)
		if maxX-minX+1 <= minWidth {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// MeasureBars измеряет каждый контур. Контуры с неположительной высотой
// пропускаются.
func MeasureBars(contours [][]image.Point) []entity.Bar {
	bars := make([]entity.Bar, 0, len(contours))
	for _, c := range contours {
		h1, h2 := BarHeights(c)
		if h1 <= 0 || h2 <= 0 {
			continue
		}
		minX, _ := xRange(c)
		bars = append(bars, entity.Bar{
			X:             minX,
			HeightPixels1: h1,
			HeightPixels2: h2,
		})
	}
	return bars
}

// BarHeights возвращает две высоты столбца: над левой и над правой опорой.
//
// Опоры ищутся среди точек не выше max_y-1. Левая опора имеет минимальный X,
// правая максимальный; при равных X выбирается точка с большим Y, то есть
// ближе к земле. Вершина над опорой: самая высокая точка контура в пределах
// footRadius по X и строго выше max_y, при равных Y берётся меньший X.
func BarHeights(points []image.Point) (h1, h2 int) {
	if len(points) == 0 {
		return 0, 0
	}

	maxY := points[0].Y
	for _, p := range points[1:] {
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	var left, right image.Point
	found := false
	for _, p := range points {
		if p.Y < maxY-baseTolerance {
			continue
		}
		if !found {
			left, right, found = p, p, true
			continue
		}
		if p.X < left.X || (p.X == left.X && p.Y > left.Y) {
			left = p
		}
		if p.X > right.X || (p.X == right.X && p.Y > right.Y) {
			right = p
		}
	}
	if !found {
		return 0, 0
	}

	return footHeight(points, left, maxY), footHeight(points, right, maxY)
}

func footHeight(points []image.Point, foot image.Point, maxY int) int {
	var top image.Point
	found := false
	for _, p := range points {
		if p.Y >= maxY || absInt(p.X-foot.X) >= footRadius {
			continue
		}
		if !found || p.Y < top.Y || (p.Y == top.Y && p.X < top.X) {
			top, found = p, true
		}
	}
	if !found {
		return 0
	}
	return foot.Y - top.Y
}

func xRange(points []image.Point) (minX, maxX int) {
	minX, maxX = points[0].X, points[0].X
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	return minX, maxX
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
