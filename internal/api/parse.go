package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

// ParseCalibration разбирает строку вида "x1 y1 x2 y2 p2 [p1]".
// Допускаются запятые и точки с запятой как разделители.
func ParseCalibration(text string) (entity.Calibration, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n'
	})
	if len(fields) != 5 && len(fields) != 6 {
		return entity.Calibration{}, apperrors.NewValidationError(
			fmt.Sprintf("expected 5 or 6 numbers, got %d", len(fields)), nil)
	}

	nums := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return entity.Calibration{}, apperrors.NewValidationError(fmt.Sprintf("%q is not an integer", f), err)
		}
		nums[i] = v
	}

	p1 := 0
	if len(nums) == 6 {
		p1 = nums[5]
	}
	return entity.NewCalibration(nums[0], nums[1], nums[2], nums[3], p1, nums[4]), nil
}
