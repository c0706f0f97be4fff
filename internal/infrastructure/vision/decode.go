package vision

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "chart-digitizer/internal/errors"
)

// DecodeImage декодирует загруженное изображение с учётом EXIF-ориентации,
// чтобы координаты совпадали с тем, что пользователь видел при выборе точек.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.NewImageLoadError("image data is empty", nil)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewImageLoadError("failed to decode image", err)
	}
	if img.Bounds().Empty() {
		return nil, apperrors.NewImageLoadError("image has no pixels", nil)
	}
	return img, nil
}
