package services

import (
	"context"
	"io"

	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/domain"
)

// mockGateway — мок-реализация ports.TelegramGateway для тестирования.
type mockGateway struct {
	SelfFunc        func() *tg.User
	SendMessageFunc func(ctx context.Context, chatRef, text string) (int, int64, error)
	GetHistoryFunc  func(ctx context.Context, chatRef string, limit int) ([]*tg.Message, map[int64]*tg.User, error)
	GetMessageFunc  func(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error)
	GetDialogsFunc  func(ctx context.Context, limit int) ([]domain.ChatInfo, error)
	PressButtonFunc func(ctx context.Context, chatRef string, msgID int, data []byte) (string, error)
	DownloadFunc    func(ctx context.Context, fileID string, w io.Writer) (int64, error)
}

func (m *mockGateway) Self() *tg.User {
	if m.SelfFunc != nil {
		return m.SelfFunc()
	}
	return nil
}

func (m *mockGateway) SendMessage(ctx context.Context, chatRef, text string) (int, int64, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatRef, text)
	}
	return 0, 0, nil
}

func (m *mockGateway) GetHistory(ctx context.Context, chatRef string, limit int) ([]*tg.Message, map[int64]*tg.User, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, chatRef, limit)
	}
	return nil, nil, nil
}

func (m *mockGateway) GetMessage(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(ctx, chatRef, msgID)
	}
	return nil, nil, nil
}

func (m *mockGateway) GetDialogs(ctx context.Context, limit int) ([]domain.ChatInfo, error) {
	if m.GetDialogsFunc != nil {
		return m.GetDialogsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockGateway) PressButton(ctx context.Context, chatRef string, msgID int, data []byte) (string, error) {
	if m.PressButtonFunc != nil {
		return m.PressButtonFunc(ctx, chatRef, msgID, data)
	}
	return "", nil
}

func (m *mockGateway) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, fileID, w)
	}
	return 0, nil
}

// mockLocator — мок-реализация ports.MessageLocator.
type mockLocator struct {
	LocateFunc func(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error)
}

func (m *mockLocator) Locate(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error) {
	if m.LocateFunc != nil {
		return m.LocateFunc(ctx, chatRef, msgID)
	}
	return nil, nil, nil
}

// mockDispatcher собирает отправленные события в канал, чтобы тесты
// могли дождаться асинхронной доставки.
type mockDispatcher struct {
	events chan domain.ReplyEvent
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{events: make(chan domain.ReplyEvent, 8)}
}

func (m *mockDispatcher) Dispatch(_ context.Context, event domain.ReplyEvent) {
	m.events <- event
}
