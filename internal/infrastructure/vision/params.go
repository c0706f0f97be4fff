package vision

// Params настройки конвейера оцифровки
type Params struct {
	ThresholdOffset int // насколько столбец темнее фона
	MinContourWidth int // контуры не шире этого значения отбрасываются
	KernelSize      int // сторона квадратного ядра морфологии
	CloseIterations int
	OpenIterations  int
	JPEGQuality     int
}

// DefaultParams возвращает параметры, под которые откалиброваны пороги
func DefaultParams() Params {
	return Params{
		ThresholdOffset: 20,
		MinContourWidth: 10,
		KernelSize:      3,
		CloseIterations: 3,
		OpenIterations:  2,
		JPEGQuality:     90,
	}
}
