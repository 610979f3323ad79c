// Package server реализует HTTP-поверхность сервиса.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/core/services"
	"telegram-personal-api/internal/domain"
	"telegram-personal-api/internal/pkg/config"
	"telegram-personal-api/internal/ports"
)

// maxMessageLength — предел длины текста исходящего сообщения.
const maxMessageLength = 4096

// defaultHistoryLimit и defaultDialogsLimit — объемы выборок по умолчанию.
const (
	defaultHistoryLimit = 20
	defaultDialogsLimit = 50
)

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	gateway    ports.TelegramGateway
	tracker    ports.ReplyTracker
	buttons    *services.ButtonService
	media      *services.MediaService
	log        *slog.Logger
}

// New создает новый экземпляр Server
func New(
	cfg *config.Config,
	gateway ports.TelegramGateway,
	tracker ports.ReplyTracker,
	buttons *services.ButtonService,
	media *services.MediaService,
	log *slog.Logger,
) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		gateway: gateway,
		tracker: tracker,
		buttons: buttons,
		media:   media,
		log:     log,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности доступна без авторизации
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	chiRouter.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Get("/me", s.handleMe)
		r.Post("/send-message", s.handleSendMessage)
		r.Get("/get-messages", s.handleGetMessages)
		r.Get("/get-chats", s.handleGetChats)
		r.Get("/get-buttons", s.handleGetButtons)
		r.Post("/click-button", s.handleClickButton)
		r.Get("/download-media", s.handleDownloadMedia)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	return s, nil
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно останавливает HTTP-сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTPServer.Shutdown(ctx)
}

// requireAPIKey проверяет bearer-ключ каждого запроса.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.cfg.Security.APIKey || s.cfg.Security.APIKey == "" {
			s.log.Warn("Запрос с недействительным API-ключом", "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleMe возвращает сведения о собственном аккаунте.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	self := s.gateway.Self()
	if self == nil {
		writeError(w, http.StatusInternalServerError, "client is not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           self.ID,
		"first_name":   self.FirstName,
		"last_name":    self.LastName,
		"username":     self.Username,
		"phone_number": self.Phone,
	})
}

// sendMessageRequest — тело запроса /send-message.
type sendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// handleSendMessage отправляет сообщение и ставит его на учет для
// отслеживания ответов.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Не удалось декодировать тело запроса")
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, "Требуется chat_id")
		return
	}
	if req.Message == "" || len(req.Message) > maxMessageLength {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Длина message должна быть от 1 до %d символов", maxMessageLength))
		return
	}

	msgID, chatID, err := s.gateway.SendMessage(r.Context(), req.ChatID, req.Message)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.tracker.Record(chatID, msgID, time.Now())
	s.log.InfoContext(r.Context(), "Сообщение отправлено и поставлено на учет",
		"chat_id", chatID, "message_id", msgID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msgID,
		"chat_id":    req.ChatID,
	})
}

// handleGetMessages возвращает последние сообщения чата.
func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	chatRef := r.URL.Query().Get("chat_id")
	if chatRef == "" {
		writeError(w, http.StatusBadRequest, "Требуется chat_id")
		return
	}
	limit, err := queryLimit(r, defaultHistoryLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Недопустимый limit")
		return
	}

	messages, users, err := s.gateway.GetHistory(r.Context(), chatRef, limit)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	items := make([]domain.MessageItem, 0, len(messages))
	for _, msg := range messages {
		items = append(items, s.messageItem(msg, users))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"chat_id":  chatRef,
		"messages": items,
	})
}

// handleGetChats возвращает список диалогов аккаунта.
func (s *Server) handleGetChats(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultDialogsLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Недопустимый limit")
		return
	}

	chats, err := s.gateway.GetDialogs(r.Context(), limit)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"chats":   chats,
	})
}

// handleGetButtons возвращает inline-клавиатуру сообщения.
func (s *Server) handleGetButtons(w http.ResponseWriter, r *http.Request) {
	chatRef := r.URL.Query().Get("chat_id")
	msgID, err := strconv.Atoi(r.URL.Query().Get("message_id"))
	if chatRef == "" || err != nil {
		writeError(w, http.StatusBadRequest, "Требуются chat_id и message_id")
		return
	}

	msg, _, err := s.buttons.Locate(r.Context(), chatRef, msgID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	buttons := s.buttons.ListButtons(msg)
	if buttons == nil {
		buttons = []domain.InlineButton{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"chat_id":    chatRef,
		"message_id": msgID,
		"buttons":    buttons,
	})
}

// clickButtonRequest — тело запроса /click-button. Ровно один из
// критериев button_text и button_data обязан быть задан.
type clickButtonRequest struct {
	ChatID     string `json:"chat_id"`
	MessageID  int    `json:"message_id"`
	ButtonText string `json:"button_text"`
	ButtonData string `json:"button_data"`
}

// handleClickButton находит кнопку по критерию и нажимает ее.
func (s *Server) handleClickButton(w http.ResponseWriter, r *http.Request) {
	var req clickButtonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Не удалось декодировать тело запроса")
		return
	}
	if req.ChatID == "" || req.MessageID == 0 {
		writeError(w, http.StatusBadRequest, "Требуются chat_id и message_id")
		return
	}
	if (req.ButtonText == "") == (req.ButtonData == "") {
		writeError(w, http.StatusBadRequest,
			"Требуется ровно один из критериев: button_text или button_data")
		return
	}

	msg, _, err := s.buttons.Locate(r.Context(), req.ChatID, req.MessageID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	button, err := s.buttons.FindButton(msg, req.ButtonText, req.ButtonData)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	result, err := s.buttons.Click(r.Context(), req.ChatID, req.MessageID, button)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"chat_id":     req.ChatID,
		"message_id":  req.MessageID,
		"button_text": button.Text,
		"result":      result,
	})
}

// handleDownloadMedia отдает содержимое файла по его file_id.
// Заголовки ответа отправляются только после получения первых байт,
// чтобы ошибки начала загрузки вернулись обычным JSON.
func (s *Server) handleDownloadMedia(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("file_id")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "Требуется file_id")
		return
	}
	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		fileName = "file"
	}
	mimeType := r.URL.Query().Get("mime_type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	lazy := &lazyHeaderWriter{w: w, fileName: fileName, mimeType: mimeType}
	written, err := s.gateway.Download(r.Context(), fileID, lazy)
	if err != nil {
		if lazy.wroteHeader {
			// Поток уже начался, менять статус поздно.
			s.log.ErrorContext(r.Context(), "Загрузка прервана после начала потока",
				"file_id", fileID, "written", written, "error", err)
			return
		}
		s.writeMappedError(w, r, err)
		return
	}
	if !lazy.wroteHeader {
		// Пустой файл: заголовки еще не отправлены.
		lazy.writeHeader()
	}
}

// lazyHeaderWriter откладывает отправку заголовков до первого байта тела.
type lazyHeaderWriter struct {
	w           http.ResponseWriter
	fileName    string
	mimeType    string
	wroteHeader bool
}

func (l *lazyHeaderWriter) writeHeader() {
	l.w.Header().Set("Content-Type", l.mimeType)
	l.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", l.fileName))
	l.w.WriteHeader(http.StatusOK)
	l.wroteHeader = true
}

func (l *lazyHeaderWriter) Write(p []byte) (int, error) {
	if !l.wroteHeader {
		l.writeHeader()
	}
	return l.w.Write(p)
}

// messageItem проецирует сообщение в элемент ответа /get-messages.
func (s *Server) messageItem(msg *tg.Message, users map[int64]*tg.User) domain.MessageItem {
	item := domain.MessageItem{
		MessageID: msg.ID,
		Date:      time.Unix(int64(msg.Date), 0).UTC().Format(time.RFC3339),
		Text:      msg.Message,
	}

	if from, ok := msg.FromID.(*tg.PeerUser); ok {
		fromUser := domain.FromUser{ID: from.UserID}
		if user, found := users[from.UserID]; found {
			fromUser.Username = user.Username
			fromUser.FirstName = user.FirstName
			fromUser.IsBot = user.Bot
		}
		item.FromUser = &fromUser
	} else if peer, ok := msg.PeerID.(*tg.PeerUser); ok && !msg.Out {
		// В личном диалоге входящие сообщения принадлежат собеседнику.
		fromUser := domain.FromUser{ID: peer.UserID}
		if user, found := users[peer.UserID]; found {
			fromUser.Username = user.Username
			fromUser.FirstName = user.FirstName
			fromUser.IsBot = user.Bot
		}
		item.FromUser = &fromUser
	}

	if descriptor := s.media.Extract(msg); descriptor.Kind != domain.MediaKindNone {
		item.Media = &descriptor
	}

	if header, ok := msg.ReplyTo.(*tg.MessageReplyHeader); ok {
		if replyTo, has := header.GetReplyToMsgID(); has {
			item.ReplyToMessageID = replyTo
		}
	}
	return item
}

// writeMappedError переводит ошибку коллаборатора в HTTP-статус.
func (s *Server) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := mapDomainError(err)
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "Непредвиденная ошибка обработчика",
			"path", r.URL.Path, "error", err)
	}
	writeError(w, status, detail)
}

// mapDomainError сопоставляет таксономию ошибок со статусами HTTP.
func mapDomainError(err error) (int, string) {
	var rateLimited *domain.RateLimitedError
	switch {
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests,
			fmt.Sprintf("Rate limited. Please wait %d seconds", rateLimited.Seconds)
	case errors.Is(err, domain.ErrInvalidTarget):
		return http.StatusNotFound, "Invalid chat_id or user not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, "Not a participant or chat is private"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "Session expired or invalid"
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

// queryLimit разбирает необязательный параметр limit.
func queryLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("недопустимое значение limit: %q", raw)
	}
	return limit, nil
}

// writeJSON сериализует тело ответа.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError отвечает телом вида {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
