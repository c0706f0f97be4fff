//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/domain/port"
	apperrors "chart-digitizer/internal/errors"
	"chart-digitizer/internal/logger"
)

var (
	colorContour  = color.RGBA{R: 255, A: 255}
	colorBaseline = color.RGBA{R: 255, B: 255, A: 255}
	colorAxis     = color.RGBA{R: 255, A: 255}
	colorMarker   = color.RGBA{R: 255, G: 255, A: 255}
)

type GoCVDigitizer struct {
	Params
}

// NewGoCVDigitizer создаёт оцифровщик на OpenCV с параметрами по умолчанию.
func NewGoCVDigitizer() *GoCVDigitizer {
	return &GoCVDigitizer{Params: DefaultParams()}
}

// Digitize запускает полный конвейер: область анализа, порог по фону,
// морфология, контуры, высоты, значения и разметка.
func (d *GoCVDigitizer) Digitize(ctx context.Context, imageData []byte, calib entity.Calibration) (*entity.DigitizationResult, error) {
	_ = ctx

	// Деление на ноль проверяем раньше геометрии, чтобы y1 == y2 всегда давало одну и ту же ошибку.
	if _, err := calib.Scale(); err != nil {
		return nil, err
	}
	if err := calib.Validate(); err != nil {
		return nil, err
	}

	img, err := DecodeImage(imageData)
	if err != nil {
		return nil, err
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, apperrors.NewImageLoadError("failed to convert image", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, apperrors.NewImageLoadError("empty image", nil)
	}

	width, height := mat.Cols(), mat.Rows()
	roi, err := DeriveROI(width, height, calib)
	if err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	threshold, err := d.backgroundThreshold(gray, roi)
	if err != nil {
		return nil, err
	}

	mask := d.foregroundMask(gray, roi, threshold)
	defer mask.Close()
	d.clean(&mask)

	contours := extractContours(mask)
	kept := FilterContours(contours, d.MinContourWidth)

	result, err := Aggregate(MeasureBars(kept), calib)
	if err != nil {
		return nil, err
	}

	annotated, err := d.annotate(mat, kept, calib)
	if err != nil {
		return nil, err
	}

	result.ImageWidth = width
	result.ImageHeight = height
	result.AnnotatedImage = annotated

	logger.WithFields(logrus.Fields{
		"roi":       roi.Rect().String(),
		"threshold": threshold,
		"contours":  len(contours),
		"kept":      len(kept),
		"bars":      len(result.Bars),
	}).Debug("Chart digitized")

	return result, nil
}

// backgroundThreshold считает порог по гистограмме пикселей внутри области.
func (d *GoCVDigitizer) backgroundThreshold(gray gocv.Mat, roi entity.ROI) (int, error) {
	region := gray.Region(roi.Rect())
	defer region.Close()

	// Region не непрерывна в памяти, копируем перед чтением байтов.
	sample := region.Clone()
	defer sample.Close()

	return BackgroundThreshold(Histogram(sample.ToBytes()), d.ThresholdOffset)
}

// foregroundMask строит инверсную бинарную маску и обнуляет всё вне области.
func (d *GoCVDigitizer) foregroundMask(gray gocv.Mat, roi entity.ROI, threshold int) gocv.Mat {
	// THRESH_BINARY_INV оставляет src <= thresh, сдвиг на единицу даёт строгое src < threshold.
	inv := gocv.NewMat()
	defer inv.Close()
	gocv.Threshold(gray, &inv, float32(threshold-1), 255, gocv.ThresholdBinaryInv)

	roiMask := gocv.Zeros(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	defer roiMask.Close()
	window := roiMask.Region(roi.Rect())
	window.SetTo(gocv.NewScalar(255, 255, 255, 255))
	window.Close()

	mask := gocv.NewMat()
	gocv.BitwiseAnd(inv, roiMask, &mask)
	return mask
}

// clean закрывает мелкие разрывы внутри столбцов и убирает шум.
func (d *GoCVDigitizer) clean(mask *gocv.Mat) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(d.KernelSize, d.KernelSize))
	defer kernel.Close()

	for i := 0; i < d.CloseIterations; i++ {
		gocv.Dilate(*mask, mask, kernel)
	}
	for i := 0; i < d.CloseIterations; i++ {
		gocv.Erode(*mask, mask, kernel)
	}

	for i := 0; i < d.OpenIterations; i++ {
		gocv.Erode(*mask, mask, kernel)
	}
	for i := 0; i < d.OpenIterations; i++ {
		gocv.Dilate(*mask, mask, kernel)
	}
}

// extractContours возвращает внешние границы всех компонент маски плоским списком.
func extractContours(mask gocv.Mat) [][]image.Point {
	contours := gocv.FindContours(mask, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([][]image.Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		out = append(out, contours.At(i).ToPoints())
	}
	return out
}

// annotate рисует контуры, базовую линию, ось и точки калибровки на копии изображения.
func (d *GoCVDigitizer) annotate(src gocv.Mat, contours [][]image.Point, calib entity.Calibration) ([]byte, error) {
	out := src.Clone()
	defer out.Close()

	if len(contours) > 0 {
		pv := gocv.NewPointsVectorFromPoints(contours)
		defer pv.Close()
		gocv.DrawContours(&out, pv, -1, colorContour, 2)
	}

	width, height := out.Cols(), out.Rows()
	base, ref := calib.Baseline, calib.Reference
	axisX := calib.AxisX()

	gocv.Line(&out, image.Pt(0, base.Y), image.Pt(width, base.Y), colorBaseline, 3)
	gocv.Line(&out, image.Pt(axisX, 0), image.Pt(axisX, height), colorAxis, 2)
	gocv.Circle(&out, image.Pt(base.X, base.Y), 8, colorMarker, -1)
	gocv.Circle(&out, image.Pt(ref.X, ref.Y), 8, colorMarker, -1)

	img, err := out.ToImage()
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to convert annotated image", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.JPEGQuality}); err != nil {
		return nil, apperrors.NewProcessingError("failed to encode annotated image", err)
	}

	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.ChartDigitizer = (*GoCVDigitizer)(nil)
