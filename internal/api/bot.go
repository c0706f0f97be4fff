package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "chart-digitizer/internal/application"
	"chart-digitizer/internal/container"
	"chart-digitizer/internal/domain/entity"
	"chart-digitizer/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот для оцифровки столбчатых диаграмм.

📸 Отправьте мне изображение диаграммы, и я измерю высоту каждого столбца.

📋 Команды:
/digitize — оцифровать диаграмму
/history — последние анализы
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте изображение диаграммы (фото или файлом)
2️⃣ Укажите две точки на оси значений
3️⃣ Вы получите таблицу значений и изображение с разметкой

` + msgCalibrationFormat + `

💡 Рекомендации:
• Отправляйте файлом, чтобы координаты не съехали при сжатии
• Фон должен быть светлым и однотонным
• Столбцы должны быть темнее фона`

	msgCalibrationFormat = `📐 Формат калибровки: x1 y1 x2 y2 p2 [p1]
• (x1, y1) — точка на базовой линии оси, значение p1 (по умолчанию 0)
• (x2, y2) — точка выше на той же оси, значение p2
Пример: 20 90 20 10 100`

	msgAwaitingChart       = "📸 Отправьте изображение диаграммы. Калибровку можно указать в подписи."
	msgAwaitingCalibration = "📐 Диаграмма получена. Теперь отправьте калибровку.\n\n" + msgCalibrationFormat
	msgCancelled           = "❌ Операция отменена. Отправьте /digitize для новой диаграммы."
	msgSendChart           = "📸 Пожалуйста, отправьте изображение диаграммы."
	msgUnknownCommand      = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing          = "⏳ Обрабатываю диаграмму..."
	msgNoBars              = "🔍 Столбцы не найдены."
	msgNoHistory           = "🗂 Анализов пока нет."
	msgProcessingError     = "⚠️ Не удалось обработать изображение. Попробуйте другое изображение."
)

// Bot представляет Telegram-бота
type Bot struct {
	api          *tgbotapi.BotAPI
	users        *app.UserService
	digitization *app.DigitizationService
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	return &Bot{
		api:          api,
		users:        c.UserService,
		digitization: c.DigitizationService,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		logger.WithError(err).Error("Error getting user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if fileID, name, ok := chartFile(msg); ok {
		b.handleChart(ctx, msg, fileID, name)
		return
	}

	if user.AwaitsCalibration() && strings.TrimSpace(msg.Text) != "" {
		b.handleCalibration(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendChart)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.cancel(ctx, user)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "digitize":
		if _, err := b.users.BeginDigitize(ctx, user.ID, user.ChatID); err != nil {
			logger.WithError(err).Error("Error updating user state")
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingChart)

	case "cancel":
		b.cancel(ctx, user)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "history":
		analyses, err := b.digitization.List(ctx, user.ID)
		if err != nil {
			logger.WithError(err).Error("Error listing analyses")
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendMessage(msg.Chat.ID, formatHistory(analyses))

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) cancel(ctx context.Context, user *entity.User) {
	if _, err := b.digitization.CancelPending(ctx, user.ID, user.ChatID); err != nil {
		logger.WithError(err).Error("Error updating user state")
	}
}

// handleChart скачивает диаграмму и либо сразу оцифровывает её по подписи,
// либо ждёт калибровку отдельным сообщением
func (b *Bot) handleChart(ctx context.Context, msg *tgbotapi.Message, fileID, name string) {
	imageData, err := b.downloadFile(fileID)
	if err != nil {
		logger.WithError(err).Error("Error downloading chart")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	caption := strings.TrimSpace(msg.Caption)
	if caption == "" {
		if _, err := b.digitization.AcceptChart(ctx, msg.From.ID, msg.Chat.ID, imageData); err != nil {
			logger.WithError(err).Error("Error storing pending chart")
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingCalibration)
		return
	}

	calib, err := ParseCalibration(caption)
	if err != nil {
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)
	analysis, err := b.digitization.Digitize(ctx, app.DigitizeRequest{
		UserID:      msg.From.ID,
		ImageName:   name,
		Image:       imageData,
		Calibration: calib,
	})
	b.reply(msg.Chat.ID, analysis, err)
}

// handleCalibration оцифровывает ранее присланную диаграмму
func (b *Bot) handleCalibration(ctx context.Context, msg *tgbotapi.Message) {
	calib, err := ParseCalibration(msg.Text)
	if err != nil {
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)
	analysis, err := b.digitization.DigitizePending(ctx, msg.From.ID, msg.Chat.ID, calib)
	b.reply(msg.Chat.ID, analysis, err)
}

// reply отправляет таблицу значений и изображение с разметкой
func (b *Bot) reply(chatID int64, analysis *entity.Analysis, err error) {
	if err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Warn("Digitization failed")
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	b.sendMessage(chatID, formatResult(analysis))

	if analysis.Result == nil || len(analysis.Result.AnnotatedImage) == 0 {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  "analyzed_" + analysis.ID + ".jpg",
		Bytes: analysis.Result.AnnotatedImage,
	})
	if _, err := b.api.Send(photo); err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Error("Error sending annotated image")
	}
}

// chartFile возвращает файл диаграммы: фото в максимальном разрешении или документ-изображение
func chartFile(msg *tgbotapi.Message) (fileID, name string, ok bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, photo.FileUniqueID + ".jpg", true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, msg.Document.FileName, true
	}
	return "", "", false
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"chat_id": chatID}).Error("Error sending message")
	}
}
