package services

import (
	"math"

	"github.com/gotd/td/tg"

	"telegram-personal-api/internal/domain"
	"telegram-personal-api/internal/telegram/fileid"
)

// coordScale — множитель фиксированной точки для географических координат.
const coordScale = 1_000_000

// MediaService извлекает из сообщения единообразное описание вложения.
type MediaService struct{}

// NewMediaService создает новый экземпляр MediaService.
func NewMediaService() *MediaService {
	return &MediaService{}
}

// Extract классифицирует вложение сообщения и возвращает дескриптор.
// Порядок видов фиксирован: photo, video, animation, document, audio,
// voice, video_note, sticker, contact, location, venue, poll, dice, game,
// web_page; сообщение без распознанного вложения дает вид "none".
func (s *MediaService) Extract(msg *tg.Message) domain.MediaDescriptor {
	if msg == nil || msg.Media == nil {
		return domain.MediaDescriptor{Kind: domain.MediaKindNone}
	}
	caption := msg.Message

	switch media := msg.Media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := media.Photo.(*tg.Photo)
		if !ok {
			return domain.MediaDescriptor{Kind: domain.MediaKindNone}
		}
		return photoDescriptor(photo, caption)
	case *tg.MessageMediaDocument:
		doc, ok := media.Document.(*tg.Document)
		if !ok {
			return domain.MediaDescriptor{Kind: domain.MediaKindNone}
		}
		return documentDescriptor(doc, caption)
	case *tg.MessageMediaContact:
		// Контакты не несут файлов: file_id остается пустым.
		return domain.MediaDescriptor{Kind: domain.MediaKindContact, Caption: caption}
	case *tg.MessageMediaGeo:
		return geoDescriptor(domain.MediaKindLocation, media.Geo, caption)
	case *tg.MessageMediaGeoLive:
		return geoDescriptor(domain.MediaKindLocation, media.Geo, caption)
	case *tg.MessageMediaVenue:
		return geoDescriptor(domain.MediaKindVenue, media.Geo, caption)
	case *tg.MessageMediaPoll:
		return domain.MediaDescriptor{Kind: domain.MediaKindPoll, Caption: caption}
	case *tg.MessageMediaDice:
		return domain.MediaDescriptor{Kind: domain.MediaKindDice, Caption: caption}
	case *tg.MessageMediaGame:
		return domain.MediaDescriptor{Kind: domain.MediaKindGame, Caption: caption}
	case *tg.MessageMediaWebPage:
		return domain.MediaDescriptor{Kind: domain.MediaKindWebPage, Caption: caption}
	}
	return domain.MediaDescriptor{Kind: domain.MediaKindNone}
}

// photoDescriptor заполняет дескриптор фотографии размерами наибольшей
// доступной версии.
func photoDescriptor(photo *tg.Photo, caption string) domain.MediaDescriptor {
	fileID, uniqueID := fileid.EncodePhoto(photo)
	d := domain.MediaDescriptor{
		Kind:         domain.MediaKindPhoto,
		FileID:       fileID,
		FileUniqueID: uniqueID,
		Caption:      caption,
	}
	for _, size := range photo.Sizes {
		if ps, ok := size.(*tg.PhotoSize); ok {
			if ps.W*ps.H > d.Width*d.Height {
				d.Width, d.Height = ps.W, ps.H
				d.FileSizeBytes = int64(ps.Size)
			}
		}
	}
	return d
}

// documentDescriptor переводит документ и его атрибуты в дескриптор
// соответствующего вида.
func documentDescriptor(doc *tg.Document, caption string) domain.MediaDescriptor {
	fileType := fileid.DetectDocumentType(doc)
	fileID, uniqueID := fileid.EncodeDocument(doc, fileType)

	d := domain.MediaDescriptor{
		Kind:          documentKind(fileType),
		FileID:        fileID,
		FileUniqueID:  uniqueID,
		MimeType:      doc.MimeType,
		FileSizeBytes: doc.Size,
		Caption:       caption,
	}

	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeFilename:
			d.FileName = a.FileName
		case *tg.DocumentAttributeVideo:
			d.Width, d.Height = a.W, a.H
			d.DurationSeconds = int(a.Duration)
		case *tg.DocumentAttributeAudio:
			d.DurationSeconds = a.Duration
		case *tg.DocumentAttributeImageSize:
			d.Width, d.Height = a.W, a.H
		}
	}
	return d
}

// documentKind сопоставляет вид файла Bot API с видом дескриптора.
func documentKind(fileType int) domain.MediaKind {
	switch fileType {
	case fileid.TypeVideo:
		return domain.MediaKindVideo
	case fileid.TypeAnimation:
		return domain.MediaKindAnimation
	case fileid.TypeAudio:
		return domain.MediaKindAudio
	case fileid.TypeVoice:
		return domain.MediaKindVoice
	case fileid.TypeVideoNote:
		return domain.MediaKindVideoNote
	case fileid.TypeSticker:
		return domain.MediaKindSticker
	}
	return domain.MediaKindDocument
}

// geoDescriptor кодирует координаты как целые с фиксированной точкой в
// полях Width/Height: это сознательный компромисс представления, а не
// геометрия изображения. Файловых полей у географических вложений нет.
func geoDescriptor(kind domain.MediaKind, geo tg.GeoPointClass, caption string) domain.MediaDescriptor {
	d := domain.MediaDescriptor{Kind: kind, Caption: caption}
	if point, ok := geo.(*tg.GeoPoint); ok {
		d.Width = int(math.Round(point.Lat * coordScale))
		d.Height = int(math.Round(point.Long * coordScale))
	}
	return d
}
