package ports

import (
	"context"
	"io"

	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/domain"
)

// TelegramGateway определяет публичный интерфейс клиента Telegram,
// потребляемый HTTP-слоем и сервисами. Ссылка на чат (chatRef) — числовой
// публичный идентификатор или @username.
type TelegramGateway interface {
	// Self возвращает собственную учетную запись аккаунта; nil до готовности.
	Self() *tg.User
	// SendMessage отправляет текст и возвращает идентификатор сообщения
	// и публичный идентификатор чата.
	SendMessage(ctx context.Context, chatRef, text string) (int, int64, error)
	// GetHistory возвращает последние limit сообщений чата и карту отправителей.
	GetHistory(ctx context.Context, chatRef string, limit int) ([]*tg.Message, map[int64]*tg.User, error)
	// GetMessage выполняет точечный поиск сообщения по идентификатору.
	GetMessage(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error)
	// GetDialogs возвращает список диалогов аккаунта.
	GetDialogs(ctx context.Context, limit int) ([]domain.ChatInfo, error)
	// PressButton нажимает callback-кнопку и возвращает текст подтверждения или URL.
	PressButton(ctx context.Context, chatRef string, msgID int, data []byte) (string, error)
	// Download скачивает файл по file_id в w.
	Download(ctx context.Context, fileID string, w io.Writer) (int64, error)
}

// MessageLocator находит сообщение по идентификатору с резервным
// просмотром недавней истории чата.
type MessageLocator interface {
	Locate(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error)
}
