package entity

// Bar один столбец диаграммы с двумя измерениями высоты
type Bar struct {
	Index         int     `json:"index"`          // порядковый номер слева направо, с 1
	X             int     `json:"x"`              // левый X контура
	HeightPixels1 int     `json:"height_pixels1"` // высота над левой опорой
	HeightPixels2 int     `json:"height_pixels2"` // высота над правой опорой
	ActualValue1  float64 `json:"actual_value1"`
	ActualValue2  float64 `json:"actual_value2"`
}

// DigitizationResult итог оцифровки одной диаграммы.
type DigitizationResult struct {
	Bars        []Bar   `json:"bars"`
	Total1      float64 `json:"total1"`
	Total2      float64 `json:"total2"`
	ImageWidth  int     `json:"image_width"`
	ImageHeight int     `json:"image_height"`

	// AnnotatedImage JPEG с разметкой, AnnotatedRef ссылка после сохранения
	AnnotatedImage []byte `json:"-"`
	AnnotatedRef   string `json:"analyzed_image,omitempty"`
}

// HasBars флаг наличия найденных столбцов
func (r *DigitizationResult) HasBars() bool {
	return len(r.Bars) > 0
}
