package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

func TestParseCalibration(t *testing.T) {
	calib, err := ParseCalibration("20 90 20 10 100")
	require.NoError(t, err)
	require.Equal(t, entity.NewCalibration(20, 90, 20, 10, 0, 100), calib)

	calib, err = ParseCalibration(" 20, 90, 22, 10, 100, 5 ")
	require.NoError(t, err)
	require.Equal(t, entity.NewCalibration(20, 90, 22, 10, 5, 100), calib)
}

func TestParseCalibration_Errors(t *testing.T) {
	for _, input := range []string{"", "1 2 3 4", "1 2 3 4 5 6 7", "1 2 x 4 5"} {
		_, err := ParseCalibration(input)
		require.True(t, apperrors.IsKind(err, apperrors.KindValidation), input)
	}
}
