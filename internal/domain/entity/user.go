package entity

// UserState шаг диалога оцифровки
type UserState string

const (
	StateMainMenu            UserState = "main_menu"
	StateAwaitingChart       UserState = "awaiting_chart"       // ждём изображение диаграммы
	StateAwaitingCalibration UserState = "awaiting_calibration" // диаграмма есть, ждём точки
	StateProcessing          UserState = "processing"
)

// User собеседник бота и его прогресс
type User struct {
	ID             int64 // Telegram User ID
	ChatID         int64 // Telegram Chat ID
	State          UserState
	LastAnalysisID string // последний успешный анализ
	AnalysisCount  int
}

func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

func (u *User) SetState(state UserState) {
	u.State = state
}

// AwaitsCalibration true, если текстовое сообщение нужно читать как калибровку
func (u *User) AwaitsCalibration() bool {
	return u.State == StateAwaitingCalibration
}

// RecordAnalysis фиксирует завершённый анализ и возвращает пользователя в меню
func (u *User) RecordAnalysis(id string) {
	u.LastAnalysisID = id
	u.AnalysisCount++
	u.State = StateMainMenu
}
