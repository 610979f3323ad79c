package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/domain"
	"telegram-personal-api/internal/ports"
)

// historyFallbackLimit — сколько последних сообщений просматривать, если
// точечный поиск не удался.
const historyFallbackLimit = 20

// ButtonService находит сообщения и кнопки их inline-клавиатур и
// выполняет нажатия.
type ButtonService struct {
	gateway ports.TelegramGateway
	log     *slog.Logger
}

// NewButtonService создает новый экземпляр ButtonService.
func NewButtonService(gateway ports.TelegramGateway, log *slog.Logger) *ButtonService {
	if log == nil {
		log = slog.Default()
	}
	return &ButtonService{gateway: gateway, log: log}
}

// Locate ищет сообщение сначала точечным запросом, а при любой его
// неудаче — просмотром последних сообщений истории. Точечный поиск
// ненадежен для некоторых состояний видимости сообщения, поэтому
// резервный просмотр обязателен.
func (s *ButtonService) Locate(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error) {
	msg, users, err := s.gateway.GetMessage(ctx, chatRef, msgID)
	if err == nil {
		return msg, users, nil
	}
	s.log.DebugContext(ctx, "Точечный поиск сообщения не удался, просматриваем историю",
		"chat", chatRef, "msg_id", msgID, "error", err)

	messages, users, histErr := s.gateway.GetHistory(ctx, chatRef, historyFallbackLimit)
	if histErr != nil {
		return nil, nil, histErr
	}
	for _, m := range messages {
		if m.ID == msgID {
			return m, users, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: message %d", domain.ErrNotFound, msgID)
}

// FindButton находит первую кнопку, подходящую под критерий: подстрочное
// совпадение текста без учета регистра либо точное совпадение
// callback-данных. Строки просматриваются сверху вниз, колонки — слева
// направо. Ровно один критерий обязан быть задан вызывающей стороной.
func (s *ButtonService) FindButton(msg *tg.Message, text, data string) (domain.InlineButton, error) {
	needle := strings.ToLower(text)
	for _, b := range s.ListButtons(msg) {
		if data != "" {
			if b.CallbackData == data {
				return b, nil
			}
			continue
		}
		if strings.Contains(strings.ToLower(b.Text), needle) {
			return b, nil
		}
	}
	return domain.InlineButton{}, fmt.Errorf("%w: button", domain.ErrNotFound)
}

// ListButtons возвращает все кнопки inline-клавиатуры сообщения с их
// координатами. Клавиатура проецируется заново при каждом вызове и нигде
// не кэшируется.
func (s *ButtonService) ListButtons(msg *tg.Message) []domain.InlineButton {
	if msg == nil {
		return nil
	}
	markup, ok := msg.ReplyMarkup.(*tg.ReplyInlineMarkup)
	if !ok {
		return nil
	}

	var buttons []domain.InlineButton
	for row, keyboardRow := range markup.Rows {
		for col, keyboardButton := range keyboardRow.Buttons {
			button := domain.InlineButton{Row: row, Column: col}
			switch b := keyboardButton.(type) {
			case *tg.KeyboardButtonCallback:
				button.Text = b.Text
				// Бинарные callback-данные декодируются как UTF-8.
				button.CallbackData = string(b.Data)
			case *tg.KeyboardButtonURL:
				button.Text = b.Text
				button.URL = b.URL
			default:
				if textual, ok := keyboardButton.(interface{ GetText() string }); ok {
					button.Text = textual.GetText()
				}
			}
			buttons = append(buttons, button)
		}
	}
	return buttons
}

// Click нажимает кнопку. URL-кнопки не требуют обращения к удаленной
// стороне — возвращается их адрес; для callback-кнопок возвращается текст
// подтверждения бота или URL перенаправления, если они есть.
func (s *ButtonService) Click(ctx context.Context, chatRef string, msgID int, button domain.InlineButton) (string, error) {
	if button.CallbackData == "" && button.URL != "" {
		return button.URL, nil
	}
	return s.gateway.PressButton(ctx, chatRef, msgID, []byte(button.CallbackData))
}
