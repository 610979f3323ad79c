// Package telegram инкапсулирует работу с MTProto API личного аккаунта:
// аутентификацию, разрешение пиров, выполнение запросов и прием живых
// обновлений.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"telegram-personal-api/internal/domain"
	trm "telegram-personal-api/internal/pkg/term"
	"telegram-personal-api/internal/telegram/fileid"
)

const (
	// downloadChunkSize — размер блока upload.getFile; должен быть кратен 4 КБ.
	downloadChunkSize = 512 * 1024
	// dialogRefreshLimit — сколько диалогов загружать при промахе кэша пиров.
	dialogRefreshLimit = 100
)

// telegramAPI представляет необработанные методы API, которые мы используем.
type telegramAPI interface {
	UsersGetUsers(ctx context.Context, request []tg.InputUserClass) ([]tg.UserClass, error)
	ContactsResolveUsername(ctx context.Context, username string) (*tg.ContactsResolvedPeer, error)
	MessagesSendMessage(ctx context.Context, req *tg.MessagesSendMessageRequest) (tg.UpdatesClass, error)
	MessagesGetHistory(ctx context.Context, req *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error)
	MessagesGetDialogs(ctx context.Context, req *tg.MessagesGetDialogsRequest) (tg.MessagesDialogsClass, error)
	MessagesGetMessages(ctx context.Context, id []tg.InputMessageClass) (tg.MessagesMessagesClass, error)
	ChannelsGetMessages(ctx context.Context, req *tg.ChannelsGetMessagesRequest) (tg.MessagesMessagesClass, error)
	MessagesGetBotCallbackAnswer(ctx context.Context, req *tg.MessagesGetBotCallbackAnswerRequest) (*tg.MessagesBotCallbackAnswer, error)
	UploadGetFile(ctx context.Context, req *tg.UploadGetFileRequest) (tg.UploadFileClass, error)
}

// telegramAuth представляет клиент аутентификации.
type telegramAuth interface {
	auth.FlowClient
}

// telegramRunner определяет зависимости от клиента gotd.
// Это позволяет создавать моки в тестах.
type telegramRunner interface {
	Run(ctx context.Context, f func(ctx context.Context) error) error
	API() telegramAPI
	Auth() telegramAuth
}

// prodRunner является оберткой вокруг реального *telegram.Client для
// удовлетворения интерфейса telegramRunner.
type prodRunner struct {
	*telegram.Client
}

func (p *prodRunner) API() telegramAPI {
	return p.Client.API()
}

func (p *prodRunner) Auth() telegramAuth {
	return p.Client.Auth()
}

// authFlow определяет интерфейс для процесса аутентификации.
type authFlow interface {
	Run(ctx context.Context, client auth.FlowClient) error
}

// MessageHandler вызывается для каждого входящего сообщения из живого
// потока обновлений вместе с сущностями, пришедшими в том же обновлении.
type MessageHandler func(ctx context.Context, msg *tg.Message, e tg.Entities)

// Config содержит конфигурацию для создания нового клиента.
type Config struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionPath string
}

// Client — клиент Telegram API личного аккаунта. Скрывает аутентификацию,
// кэш пиров, ограничение частоты запросов и перевод ошибок RPC в доменную
// таксономию.
type Client struct {
	tgRunner   telegramRunner
	authFlow   authFlow
	isTerminal func(fd int) bool
	clock      func() time.Time
	log        *slog.Logger
	limiter    *rate.Limiter
	peers      *peerStore

	mu        sync.RWMutex
	self      *tg.User
	onMessage MessageHandler

	ready     chan struct{}
	runErr    chan error
	startOnce sync.Once
}

// ClientOption определяет функциональную опцию для конфигурации клиента.
type ClientOption func(*Client)

// WithLogger устанавливает логгер для клиента.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient создает новый экземпляр Client.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	termAuth := trm.NewTerminal(cfg.PhoneNumber)
	sessionStorage := &session.FileStorage{Path: cfg.SessionPath}

	c := &Client{
		authFlow:   auth.NewFlow(termAuth, auth.SendCodeOptions{}),
		isTerminal: func(fd int) bool { return term.IsTerminal(fd) },
		clock:      time.Now,
		log:        slog.Default(),
		limiter:    rate.NewLimiter(rate.Every(time.Second/10), 10),
		peers:      newPeerStore(),
		ready:      make(chan struct{}),
		runErr:     make(chan error, 1),
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		c.handleIncoming(ctx, u.Message, e)
		return nil
	})
	dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		c.handleIncoming(ctx, u.Message, e)
		return nil
	})

	tgClient := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: sessionStorage,
		UpdateHandler:  dispatcher,
	})
	c.tgRunner = &prodRunner{Client: tgClient}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OnMessage регистрирует обработчик входящих сообщений.
// Должен быть вызван до Start.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = h
}

// handleIncoming пополняет кэш пиров сущностями обновления и передает
// входящее сообщение зарегистрированному обработчику. Исходящие
// сообщения аккаунта пропускаются.
func (c *Client) handleIncoming(ctx context.Context, m tg.MessageClass, e tg.Entities) {
	c.peers.collectEntities(e)

	msg, ok := m.(*tg.Message)
	if !ok || msg.Out {
		return
	}

	c.mu.RLock()
	h := c.onMessage
	c.mu.RUnlock()
	if h != nil {
		h(ctx, msg, e)
	}
}

// Start запускает фоновый процесс клиента, включая аутентификацию.
// Должен быть вызван один раз перед использованием клиента.
func (c *Client) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go func() {
			c.log.InfoContext(ctx, "Starting telegram client background runner")
			err := c.tgRunner.Run(ctx, func(runCtx context.Context) error {
				if err := c.ensureAuth(runCtx); err != nil {
					return err
				}
				if err := c.loadSelf(runCtx); err != nil {
					return fmt.Errorf("failed to load own identity: %w", err)
				}

				// Прогреваем кэш пиров списком диалогов; промах не фатален.
				if _, err := c.GetDialogs(runCtx, dialogRefreshLimit); err != nil {
					c.log.WarnContext(runCtx, "Dialog warmup failed", "error", err)
				}

				c.log.InfoContext(runCtx, "Telegram client authenticated and ready")
				close(c.ready)

				// Держим соединение активным, пока не завершится контекст.
				<-runCtx.Done()
				return runCtx.Err()
			})

			if err != nil && !errors.Is(err, context.Canceled) {
				c.log.ErrorContext(ctx, "Telegram client background runner exited with error", "error", err)
			} else {
				c.log.InfoContext(ctx, "Telegram client background runner stopped")
			}

			c.runErr <- err
			close(c.runErr)
		}()
	})
}

// ensureAuth проверяет статус сессии и при необходимости запускает
// интерактивную аутентификацию через терминал.
func (c *Client) ensureAuth(ctx context.Context) error {
	_, err := c.tgRunner.API().UsersGetUsers(ctx, []tg.InputUserClass{&tg.InputUserSelf{}})
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "AUTH_KEY_UNREGISTERED") {
		c.log.WarnContext(ctx, "Session check failed, attempting interactive auth", "reason", "AUTH_KEY_UNREGISTERED")
	} else {
		c.log.WarnContext(ctx, "Session check failed, attempting interactive auth", "error", err)
	}
	if !c.isTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("session is invalid and cannot perform interactive auth in non-terminal: %w", err)
	}
	if authErr := c.authFlow.Run(ctx, c.tgRunner.Auth()); authErr != nil {
		return fmt.Errorf("interactive auth failed: %w", authErr)
	}
	c.log.InfoContext(ctx, "Interactive auth successful, session saved")
	return nil
}

// loadSelf запрашивает и кэширует собственную учетную запись аккаунта.
func (c *Client) loadSelf(ctx context.Context) error {
	users, err := c.tgRunner.API().UsersGetUsers(ctx, []tg.InputUserClass{&tg.InputUserSelf{}})
	if err != nil {
		return err
	}
	for _, u := range users {
		if user, ok := u.(*tg.User); ok && user.Self {
			c.peers.collectUsers(users)
			c.mu.Lock()
			c.self = user
			c.mu.Unlock()
			return nil
		}
	}
	return errors.New("users.getUsers did not return self")
}

// WaitReady блокируется до готовности клиента, завершения контекста или
// падения фонового процесса.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case err, ok := <-c.runErr:
		if ok && err != nil {
			return err
		}
		return errors.New("telegram client stopped before becoming ready")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Self возвращает собственную учетную запись, зафиксированную при запуске.
// До готовности клиента возвращает nil.
func (c *Client) Self() *tg.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.self
}

// do выполняет один запрос к API: ждет разрешения ограничителя частоты,
// вызывает операцию и переводит ошибку RPC в доменную таксономию.
func (c *Client) do(ctx context.Context, f func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return mapRPCError(f(ctx))
}

// SendMessage отправляет текстовое сообщение. Возвращает идентификатор
// нового сообщения и публичный идентификатор чата после разрешения ссылки.
func (c *Client) SendMessage(ctx context.Context, chatRef, text string) (int, int64, error) {
	peer, err := c.resolvePeer(ctx, chatRef)
	if err != nil {
		return 0, 0, err
	}

	var updates tg.UpdatesClass
	err = c.do(ctx, func(ctx context.Context) error {
		res, sendErr := c.tgRunner.API().MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
			Peer:     peer,
			Message:  text,
			RandomID: rand.Int63(),
		})
		if sendErr == nil {
			updates = res
		}
		return sendErr
	})
	if err != nil {
		c.log.WarnContext(ctx, "API call messages.sendMessage failed", "chat", chatRef, "error", err)
		return 0, 0, err
	}

	c.collectFromUpdates(updates)
	msgID, err := sentMessageID(updates)
	if err != nil {
		return 0, 0, err
	}

	var selfID int64
	if self := c.Self(); self != nil {
		selfID = self.ID
	}
	return msgID, publicIDOfInput(peer, selfID), nil
}

// GetHistory возвращает последние limit сообщений чата вместе с картой
// отправителей.
func (c *Client) GetHistory(ctx context.Context, chatRef string, limit int) ([]*tg.Message, map[int64]*tg.User, error) {
	peer, err := c.resolvePeer(ctx, chatRef)
	if err != nil {
		return nil, nil, err
	}

	var res tg.MessagesMessagesClass
	err = c.do(ctx, func(ctx context.Context) error {
		r, histErr := c.tgRunner.API().MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:  peer,
			Limit: limit,
		})
		if histErr == nil {
			res = r
		}
		return histErr
	})
	if err != nil {
		c.log.WarnContext(ctx, "API call messages.getHistory failed", "chat", chatRef, "error", err)
		return nil, nil, err
	}

	return c.parseMessages(res)
}

// GetMessage выполняет точечный поиск сообщения по идентификатору.
// Возвращает domain.ErrNotFound, если сообщение отсутствует или скрыто.
func (c *Client) GetMessage(ctx context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error) {
	peer, err := c.resolvePeer(ctx, chatRef)
	if err != nil {
		return nil, nil, err
	}

	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: msgID}}
	var res tg.MessagesMessagesClass
	err = c.do(ctx, func(ctx context.Context) error {
		var getErr error
		var r tg.MessagesMessagesClass
		if channel, ok := peer.(*tg.InputPeerChannel); ok {
			// Сообщения каналов недоступны через messages.getMessages.
			r, getErr = c.tgRunner.API().ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
				Channel: &tg.InputChannel{ChannelID: channel.ChannelID, AccessHash: channel.AccessHash},
				ID:      ids,
			})
		} else {
			r, getErr = c.tgRunner.API().MessagesGetMessages(ctx, ids)
		}
		if getErr == nil {
			res = r
		}
		return getErr
	})
	if err != nil {
		return nil, nil, err
	}

	messages, users, err := c.parseMessages(res)
	if err != nil {
		return nil, nil, err
	}
	for _, msg := range messages {
		if msg.ID == msgID {
			return msg, users, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: message %d", domain.ErrNotFound, msgID)
}

// GetDialogs возвращает список диалогов аккаунта и попутно пополняет
// кэш пиров.
func (c *Client) GetDialogs(ctx context.Context, limit int) ([]domain.ChatInfo, error) {
	var res tg.MessagesDialogsClass
	err := c.do(ctx, func(ctx context.Context) error {
		r, dlgErr := c.tgRunner.API().MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetPeer: &tg.InputPeerEmpty{},
			Limit:      limit,
		})
		if dlgErr == nil {
			res = r
		}
		return dlgErr
	})
	if err != nil {
		c.log.WarnContext(ctx, "API call messages.getDialogs failed", "error", err)
		return nil, err
	}

	var dialogs []tg.DialogClass
	var users []tg.UserClass
	var chats []tg.ChatClass
	switch d := res.(type) {
	case *tg.MessagesDialogs:
		dialogs, users, chats = d.Dialogs, d.Users, d.Chats
	case *tg.MessagesDialogsSlice:
		dialogs, users, chats = d.Dialogs, d.Users, d.Chats
	default:
		return nil, fmt.Errorf("unexpected dialogs result %T", res)
	}

	c.peers.collectUsers(users)
	c.peers.collectChats(chats)

	userIndex := make(map[int64]*tg.User, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			userIndex[user.ID] = user
		}
	}
	chatIndex := make(map[int64]tg.ChatClass, len(chats))
	for _, ch := range chats {
		switch chat := ch.(type) {
		case *tg.Chat:
			chatIndex[chat.ID] = chat
		case *tg.Channel:
			chatIndex[chat.ID] = chat
		}
	}

	result := make([]domain.ChatInfo, 0, len(dialogs))
	for _, d := range dialogs {
		dlg, ok := d.(*tg.Dialog)
		if !ok {
			continue
		}
		if info, ok := dialogInfo(dlg.Peer, userIndex, chatIndex); ok {
			result = append(result, info)
		}
	}
	return result, nil
}

// PressButton выполняет нажатие callback-кнопки и возвращает текст
// подтверждения бота либо URL перенаправления.
func (c *Client) PressButton(ctx context.Context, chatRef string, msgID int, data []byte) (string, error) {
	peer, err := c.resolvePeer(ctx, chatRef)
	if err != nil {
		return "", err
	}

	req := &tg.MessagesGetBotCallbackAnswerRequest{
		Peer:  peer,
		MsgID: msgID,
	}
	req.SetData(data)

	var answer *tg.MessagesBotCallbackAnswer
	err = c.do(ctx, func(ctx context.Context) error {
		a, pressErr := c.tgRunner.API().MessagesGetBotCallbackAnswer(ctx, req)
		if pressErr == nil {
			answer = a
		}
		return pressErr
	})
	if err != nil {
		c.log.WarnContext(ctx, "API call messages.getBotCallbackAnswer failed", "chat", chatRef, "msg_id", msgID, "error", err)
		return "", err
	}

	if text, ok := answer.GetMessage(); ok {
		return text, nil
	}
	if url, ok := answer.GetURL(); ok {
		return url, nil
	}
	return "", nil
}

// Download скачивает содержимое файла по его file_id и пишет его в w.
// Возвращает число записанных байт.
func (c *Client) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	loc, err := fileid.Decode(fileID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}
	location := loc.InputLocation()

	var total int64
	for {
		var part tg.UploadFileClass
		err := c.do(ctx, func(ctx context.Context) error {
			p, getErr := c.tgRunner.API().UploadGetFile(ctx, &tg.UploadGetFileRequest{
				Location: location,
				Offset:   total,
				Limit:    downloadChunkSize,
			})
			if getErr == nil {
				part = p
			}
			return getErr
		})
		if err != nil {
			return total, err
		}

		file, ok := part.(*tg.UploadFile)
		if !ok {
			return total, fmt.Errorf("unexpected upload.getFile result %T", part)
		}
		if len(file.Bytes) == 0 {
			return total, nil
		}
		if _, err := w.Write(file.Bytes); err != nil {
			return total, err
		}
		total += int64(len(file.Bytes))
		if len(file.Bytes) < downloadChunkSize {
			return total, nil
		}
	}
}

// resolvePeer превращает внешнюю ссылку на чат (числовой идентификатор
// или @username) в InputPeer. При промахе кэша пиров список диалогов
// перечитывается один раз.
func (c *Client) resolvePeer(ctx context.Context, chatRef string) (tg.InputPeerClass, error) {
	ref := strings.TrimSpace(chatRef)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty chat reference", domain.ErrInvalidTarget)
	}

	if isNumericRef(ref) {
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTarget, chatRef)
		}
		if peer, ok := c.peers.inputPeer(id); ok {
			return peer, nil
		}
		if _, err := c.GetDialogs(ctx, dialogRefreshLimit); err != nil {
			return nil, err
		}
		if peer, ok := c.peers.inputPeer(id); ok {
			return peer, nil
		}
		return nil, fmt.Errorf("%w: chat %q is not known to this account", domain.ErrInvalidTarget, chatRef)
	}

	username := strings.TrimPrefix(ref, "@")
	var resolved *tg.ContactsResolvedPeer
	err := c.do(ctx, func(ctx context.Context) error {
		r, resErr := c.tgRunner.API().ContactsResolveUsername(ctx, username)
		if resErr == nil {
			resolved = r
		}
		return resErr
	})
	if err != nil {
		c.log.WarnContext(ctx, "API call contacts.resolveUsername failed", "username", username, "error", err)
		return nil, err
	}

	c.peers.collectUsers(resolved.Users)
	c.peers.collectChats(resolved.Chats)
	if peer, ok := c.peers.fromPeer(resolved.Peer); ok {
		return peer, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTarget, chatRef)
}

// parseMessages разбирает результат методов messages.* в список сообщений
// и карту отправителей, попутно пополняя кэш пиров.
func (c *Client) parseMessages(res tg.MessagesMessagesClass) ([]*tg.Message, map[int64]*tg.User, error) {
	var rawMessages []tg.MessageClass
	var rawUsers []tg.UserClass
	var rawChats []tg.ChatClass

	switch m := res.(type) {
	case *tg.MessagesMessages:
		rawMessages, rawUsers, rawChats = m.Messages, m.Users, m.Chats
	case *tg.MessagesMessagesSlice:
		rawMessages, rawUsers, rawChats = m.Messages, m.Users, m.Chats
	case *tg.MessagesChannelMessages:
		rawMessages, rawUsers, rawChats = m.Messages, m.Users, m.Chats
	default:
		return nil, nil, fmt.Errorf("unexpected messages result %T", res)
	}

	c.peers.collectUsers(rawUsers)
	c.peers.collectChats(rawChats)

	users := make(map[int64]*tg.User, len(rawUsers))
	for _, u := range rawUsers {
		if user, ok := u.(*tg.User); ok {
			users[user.ID] = user
		}
	}

	messages := make([]*tg.Message, 0, len(rawMessages))
	for _, m := range rawMessages {
		if msg, ok := m.(*tg.Message); ok {
			messages = append(messages, msg)
		}
	}
	return messages, users, nil
}

// collectFromUpdates пополняет кэш пиров сущностями из результата отправки.
func (c *Client) collectFromUpdates(u tg.UpdatesClass) {
	switch upd := u.(type) {
	case *tg.Updates:
		c.peers.collectUsers(upd.Users)
		c.peers.collectChats(upd.Chats)
	case *tg.UpdatesCombined:
		c.peers.collectUsers(upd.Users)
		c.peers.collectChats(upd.Chats)
	}
}

// sentMessageID извлекает идентификатор отправленного сообщения из
// результата messages.sendMessage.
func sentMessageID(u tg.UpdatesClass) (int, error) {
	switch upd := u.(type) {
	case *tg.UpdateShortSentMessage:
		return upd.ID, nil
	case *tg.Updates:
		return messageIDFromUpdates(upd.Updates)
	case *tg.UpdatesCombined:
		return messageIDFromUpdates(upd.Updates)
	}
	return 0, fmt.Errorf("unexpected sendMessage result %T", u)
}

func messageIDFromUpdates(updates []tg.UpdateClass) (int, error) {
	for _, u := range updates {
		switch upd := u.(type) {
		case *tg.UpdateMessageID:
			return upd.ID, nil
		case *tg.UpdateNewMessage:
			if msg, ok := upd.Message.(*tg.Message); ok {
				return msg.ID, nil
			}
		case *tg.UpdateNewChannelMessage:
			if msg, ok := upd.Message.(*tg.Message); ok {
				return msg.ID, nil
			}
		}
	}
	return 0, errors.New("sendMessage result carries no message id")
}

// isNumericRef сообщает, выглядит ли ссылка на чат как числовой
// идентификатор (возможно отрицательный).
func isNumericRef(ref string) bool {
	body := strings.TrimPrefix(ref, "-")
	if body == "" {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dialogInfo строит описание чата для одного диалога.
func dialogInfo(peer tg.PeerClass, users map[int64]*tg.User, chats map[int64]tg.ChatClass) (domain.ChatInfo, bool) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		u, ok := users[p.UserID]
		if !ok {
			return domain.ChatInfo{}, false
		}
		title := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if title == "" {
			title = u.Username
		}
		chatType := "private"
		if u.Bot {
			chatType = "bot"
		}
		return domain.ChatInfo{
			ID:       u.ID,
			Title:    title,
			Type:     chatType,
			Username: u.Username,
		}, true
	case *tg.PeerChat:
		ch, ok := chats[p.ChatID].(*tg.Chat)
		if !ok {
			return domain.ChatInfo{}, false
		}
		return domain.ChatInfo{
			ID:    -ch.ID,
			Title: ch.Title,
			Type:  "group",
		}, true
	case *tg.PeerChannel:
		ch, ok := chats[p.ChannelID].(*tg.Channel)
		if !ok {
			return domain.ChatInfo{}, false
		}
		chatType := "channel"
		if ch.Megagroup {
			chatType = "supergroup"
		}
		return domain.ChatInfo{
			ID:       -(channelIDOffset + ch.ID),
			Title:    ch.Title,
			Type:     chatType,
			Username: ch.Username,
		}, true
	}
	return domain.ChatInfo{}, false
}
