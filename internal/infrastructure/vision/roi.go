package vision

import (
	"fmt"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

// DeriveROI строит область анализа справа от оси и над базовой линией.
// Верх области берётся как y2-height и обычно уходит в минус, поэтому
// область всегда обрезается по границам изображения.
func DeriveROI(width, height int, calib entity.Calibration) (entity.ROI, error) {
	raw := entity.ROI{
		Left:   calib.AxisX(),
		Right:  width,
		Top:    calib.Reference.Y - height,
		Bottom: calib.Baseline.Y,
	}

	roi := raw.Clamp(width, height)
	if roi.Empty() {
		return entity.ROI{}, apperrors.NewEmptyROIError(fmt.Sprintf(
			"roi is empty - check reference points (left=%d right=%d top=%d bottom=%d, image %dx%d)",
			raw.Left, raw.Right, raw.Top, raw.Bottom, width, height))
	}
	return roi, nil
}
