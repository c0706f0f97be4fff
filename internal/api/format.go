package telegram

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
)

const historyLimit = 10

// formatResult строит текстовую таблицу столбцов и итогов
func formatResult(a *entity.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s\n", a.Title)

	if a.Result == nil || !a.Result.HasBars() {
		sb.WriteString(msgNoBars)
		return sb.String()
	}

	sb.WriteString("\n№  X     Знач.1    Знач.2\n")
	for _, bar := range a.Result.Bars {
		fmt.Fprintf(&sb, "%-2d %-5d %-9s %s\n", bar.Index, bar.X, formatValue(bar.ActualValue1), formatValue(bar.ActualValue2))
	}
	fmt.Fprintf(&sb, "\nИтого: %s / %s", formatValue(a.Result.Total1), formatValue(a.Result.Total2))
	return sb.String()
}

// formatHistory список последних анализов пользователя
func formatHistory(analyses []*entity.Analysis) string {
	if len(analyses) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние анализы:\n")
	for i, a := range analyses {
		if i == historyLimit {
			break
		}
		bars := 0
		if a.Result != nil {
			bars = len(a.Result.Bars)
		}
		fmt.Fprintf(&sb, "%d. %s (столбцов: %d)\n", i+1, a.String(), bars)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// errorMessage переводит ошибку обработки в сообщение для пользователя
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return msgProcessingError
	}

	switch appErr.Kind {
	case apperrors.KindImageLoad:
		return "⚠️ Не удалось открыть изображение. Пришлите PNG, JPEG или WebP."
	case apperrors.KindEmptyROI:
		return "⚠️ Область анализа пуста. Проверьте точки калибровки."
	case apperrors.KindDivisionByZero:
		return "⚠️ Точки калибровки должны различаться по Y."
	case apperrors.KindValidation:
		return "⚠️ Некорректная калибровка: " + appErr.Message + "\n\n" + msgCalibrationFormat
	case apperrors.KindTimeout:
		return "⌛ Обработка заняла слишком много времени. Попробуйте изображение меньшего размера."
	default:
		return msgProcessingError
	}
}
