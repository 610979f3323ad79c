package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/domain"
	"telegram-personal-api/internal/ports"
	"telegram-personal-api/internal/telegram"
)

// ReplyService классифицирует входящие сообщения живого потока: ответ на
// отслеживаемое сообщение либо на сам аккаунт превращается в событие для
// внешнего приемника. Сервис — чистый фильтр: учетное хранилище он только
// читает и никогда не изменяет.
type ReplyService struct {
	tracker    ports.ReplyTracker
	locator    ports.MessageLocator
	dispatcher ports.EventDispatcher
	allowed    map[int64]struct{}
	selfID     int64
	log        *slog.Logger
}

// NewReplyService создает новый экземпляр ReplyService.
// dispatcher может быть nil — тогда классификация отключена.
// allowed — необязательный список разрешенных чатов; пустой или nil
// означает "все чаты". selfID — собственный идентификатор аккаунта,
// зафиксированный при запуске.
func NewReplyService(
	tracker ports.ReplyTracker,
	locator ports.MessageLocator,
	dispatcher ports.EventDispatcher,
	allowed map[int64]struct{},
	selfID int64,
	log *slog.Logger,
) *ReplyService {
	if log == nil {
		log = slog.Default()
	}
	return &ReplyService{
		tracker:    tracker,
		locator:    locator,
		dispatcher: dispatcher,
		allowed:    allowed,
		selfID:     selfID,
		log:        log,
	}
}

// HandleMessage обрабатывает одно входящее сообщение. Вызывается по
// одному разу на событие потока в порядке поступления; порядок между
// событиями не гарантируется и не требуется.
func (s *ReplyService) HandleMessage(ctx context.Context, msg *tg.Message, e tg.Entities) {
	// Без настроенного приемника работа не имеет смысла.
	if s.dispatcher == nil || msg == nil {
		return
	}

	chatID := telegram.PublicPeerID(msg.PeerID)
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[chatID]; !ok {
			return
		}
	}

	replyToID, ok := replyTargetID(msg)
	if !ok {
		return
	}

	isReplyToTracked := s.tracker.IsTracked(chatID, replyToID)

	// Заголовок ответа несет только идентификатор, поэтому исходное
	// сообщение запрашивается: оно нужно и для проверки "ответ самому
	// аккаунту", и для обогащения уведомления.
	referenced, fetchErr := s.fetchReferenced(ctx, chatID, replyToID)
	isReplyToSelf := fetchErr == nil && referenced.SenderID != 0 && referenced.SenderID == s.selfID

	if !isReplyToTracked && !isReplyToSelf {
		return
	}
	if fetchErr != nil {
		// Отслеживаемый идентификатор совпал, но исходное сообщение
		// недоступно: уведомляем с тем, что есть.
		s.log.WarnContext(ctx, "Не удалось загрузить исходное сообщение ответа",
			"chat_id", chatID, "reply_to", replyToID, "error", fetchErr)
		referenced = domain.ReferencedMessage{ID: replyToID}
	}

	event := domain.ReplyEvent{
		Chat:      chatInfoFromEntities(chatID, e),
		MessageID: msg.ID,
		Text:      msg.Message,
		Date:      time.Unix(int64(msg.Date), 0),
		From:      senderOf(msg, e),
		ReplyTo:   referenced,
	}

	s.log.InfoContext(ctx, "Обнаружен ответ, представляющий интерес",
		"chat_id", chatID, "message_id", msg.ID, "reply_to", replyToID,
		"tracked", isReplyToTracked, "to_self", isReplyToSelf)

	// Доставка не должна задерживать путь обработки входящих событий;
	// ее длительность ограничена таймаутом приемника.
	go s.dispatcher.Dispatch(context.WithoutCancel(ctx), event)
}

// fetchReferenced загружает исходное сообщение ответа.
func (s *ReplyService) fetchReferenced(ctx context.Context, chatID int64, msgID int) (domain.ReferencedMessage, error) {
	msg, users, err := s.locator.Locate(ctx, strconv.FormatInt(chatID, 10), msgID)
	if err != nil {
		return domain.ReferencedMessage{}, err
	}

	ref := domain.ReferencedMessage{
		ID:   msg.ID,
		Text: msg.Message,
		Date: time.Unix(int64(msg.Date), 0),
	}
	switch {
	case msg.Out:
		ref.SenderID = s.selfID
	default:
		if from, ok := msg.FromID.(*tg.PeerUser); ok {
			ref.SenderID = from.UserID
		} else if chatID > 0 {
			// В личном диалоге входящее сообщение принадлежит собеседнику.
			ref.SenderID = chatID
		}
	}
	if sender, ok := users[ref.SenderID]; ok {
		ref.SenderUsername = sender.Username
	}
	return ref, nil
}

// replyTargetID извлекает идентификатор сообщения, на которое отвечают.
func replyTargetID(msg *tg.Message) (int, bool) {
	header, ok := msg.ReplyTo.(*tg.MessageReplyHeader)
	if !ok {
		return 0, false
	}
	return header.GetReplyToMsgID()
}

// senderOf строит описание отправителя входящего сообщения.
func senderOf(msg *tg.Message, e tg.Entities) domain.FromUser {
	var senderID int64
	if from, ok := msg.FromID.(*tg.PeerUser); ok {
		senderID = from.UserID
	} else if peer, ok := msg.PeerID.(*tg.PeerUser); ok {
		senderID = peer.UserID
	}

	from := domain.FromUser{ID: senderID}
	if user, ok := e.Users[senderID]; ok {
		from.Username = user.Username
		from.FirstName = user.FirstName
		from.IsBot = user.Bot
	}
	return from
}

// chatInfoFromEntities восстанавливает описание чата из сущностей,
// пришедших вместе с обновлением.
func chatInfoFromEntities(chatID int64, e tg.Entities) domain.ChatInfo {
	info := domain.ChatInfo{ID: chatID, Type: "private"}
	switch {
	case chatID > 0:
		if user, ok := e.Users[chatID]; ok {
			info.Title = strings.TrimSpace(user.FirstName + " " + user.LastName)
			info.Username = user.Username
			if user.Bot {
				info.Type = "bot"
			}
		}
	case chatID <= -1_000_000_000_000:
		info.Type = "channel"
		if channel, ok := e.Channels[-chatID-1_000_000_000_000]; ok {
			info.Title = channel.Title
			info.Username = channel.Username
			if channel.Megagroup {
				info.Type = "supergroup"
			}
		}
	default:
		info.Type = "group"
		if chat, ok := e.Chats[-chatID]; ok {
			info.Title = chat.Title
		}
	}
	return info
}
