package entity

import "time"

// DefaultAnalysisTitle название анализа, если пользователь его не указал
const DefaultAnalysisTitle = "Untitled Analysis"

// Analysis сохранённый результат оцифровки
type Analysis struct {
	ID           string              `json:"id"`
	UserID       int64               `json:"user_id,omitempty"`
	Title        string              `json:"title"`
	Calibration  Calibration         `json:"calibration"`
	Result       *DigitizationResult `json:"result"`
	AnnotatedRef string              `json:"analyzed_image"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewAnalysis создаёт запись анализа
func NewAnalysis(id string, userID int64, title string, calib Calibration, result *DigitizationResult, now time.Time) *Analysis {
	if title == "" {
		title = DefaultAnalysisTitle
	}
	a := &Analysis{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Calibration: calib,
		Result:      result,
		CreatedAt:   now,
	}
	if result != nil {
		a.AnnotatedRef = result.AnnotatedRef
	}
	return a
}

// String короткое описание для логов и списков
func (a *Analysis) String() string {
	return a.Title + " - " + a.CreatedAt.Format("2006-01-02")
}
