// Package domain содержит модели данных, общие для всех слоев приложения.
package domain

import "time"

// ChatInfo описывает один диалог из списка чатов аккаунта.
// ID приводится к публичному формату Bot API (пользователь > 0,
// группа -id, канал/супергруппа -100xxxxxxxxxx).
type ChatInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
}

// FromUser описывает отправителя сообщения.
type FromUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	IsBot     bool   `json:"is_bot"`
}

// MessageItem представляет одно сообщение в ответе /get-messages.
// Text содержит текст сообщения или подпись к медиа.
type MessageItem struct {
	MessageID        int              `json:"message_id"`
	Date             string           `json:"date"`
	Text             string           `json:"text,omitempty"`
	FromUser         *FromUser        `json:"from_user,omitempty"`
	Media            *MediaDescriptor `json:"media,omitempty"`
	ReplyToMessageID int              `json:"reply_to_message_id,omitempty"`
}

// MediaKind — закрытое множество видов вложений.
type MediaKind string

const (
	MediaKindPhoto     MediaKind = "photo"
	MediaKindVideo     MediaKind = "video"
	MediaKindAnimation MediaKind = "animation"
	MediaKindDocument  MediaKind = "document"
	MediaKindAudio     MediaKind = "audio"
	MediaKindVoice     MediaKind = "voice"
	MediaKindVideoNote MediaKind = "video_note"
	MediaKindSticker   MediaKind = "sticker"
	MediaKindContact   MediaKind = "contact"
	MediaKindLocation  MediaKind = "location"
	MediaKindVenue     MediaKind = "venue"
	MediaKindPoll      MediaKind = "poll"
	MediaKindDice      MediaKind = "dice"
	MediaKindGame      MediaKind = "game"
	MediaKindWebPage   MediaKind = "web_page"
	MediaKindNone      MediaKind = "none"
)

// MediaDescriptor — единообразное описание вложения сообщения.
// Каждый вид заполняет только осмысленные для него поля; отсутствующие
// поля остаются пустыми. Для location и venue географические координаты
// кодируются как целые числа с фиксированной точкой (умноженные на
// 1 000 000) в полях Width/Height.
type MediaDescriptor struct {
	Kind            MediaKind `json:"kind"`
	FileID          string    `json:"file_id,omitempty"`
	FileUniqueID    string    `json:"file_unique_id,omitempty"`
	FileName        string    `json:"file_name,omitempty"`
	MimeType        string    `json:"mime_type,omitempty"`
	FileSizeBytes   int64     `json:"file_size,omitempty"`
	Width           int       `json:"width,omitempty"`
	Height          int       `json:"height,omitempty"`
	DurationSeconds int       `json:"duration,omitempty"`
	Caption         string    `json:"caption,omitempty"`
}

// InlineButton — проекция одной кнопки inline-клавиатуры сообщения.
// Бинарные callback-данные декодируются как UTF-8.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
	Row          int    `json:"row"`
	Column       int    `json:"column"`
}

// ReferencedMessage описывает исходное сообщение, на которое пришел ответ.
type ReferencedMessage struct {
	ID             int
	Text           string
	Date           time.Time
	SenderID       int64
	SenderUsername string
}

// ReplyEvent — результат классификации входящего сообщения как
// "ответа, представляющего интерес". Живет только на время отправки
// уведомления и нигде не сохраняется.
type ReplyEvent struct {
	Chat      ChatInfo
	MessageID int
	Text      string
	Date      time.Time
	From      FromUser
	ReplyTo   ReferencedMessage
}
