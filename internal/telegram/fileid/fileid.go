// Package fileid кодирует данные файлов MTProto в формат file_id Bot API
// и обратно. Формат описан в спецификации tg-file-decoder
// (https://github.com/danog/tg-file-decoder).
package fileid

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gotd/td/tg"
)

// Виды файлов Bot API.
const (
	TypeThumbnail = 0
	TypePhoto     = 2
	TypeVoice     = 3
	TypeVideo     = 4
	TypeDocument  = 5
	TypeSticker   = 8
	TypeAudio     = 9
	TypeAnimation = 10
	TypeVideoNote = 13
)

// Источники размера фотографии.
const (
	photoSizeSourceThumbnail  = 1
	photoSizeSourceFullLegacy = 5
)

// Флаги в старших битах поля типа.
const (
	fileReferenceFlag = 1 << 25
	webLocationFlag   = 1 << 24
)

// Версия формата, которую пишут текущие клиенты Telegram.
const (
	formatVersion    = 4
	formatSubVersion = 47
)

// ErrInvalidFileID возвращается, когда строка не является корректным file_id.
var ErrInvalidFileID = errors.New("invalid file_id")

// Location — результат декодирования file_id: все, что нужно для
// построения InputFileLocation и загрузки содержимого.
type Location struct {
	Type          int
	DCID          int
	ID            int64
	AccessHash    int64
	FileReference []byte
	ThumbType     byte
}

// InputLocation строит местоположение файла для upload.getFile.
func (l *Location) InputLocation() tg.InputFileLocationClass {
	if l.Type == TypePhoto {
		thumb := "y"
		if l.ThumbType != 0 {
			thumb = string(l.ThumbType)
		}
		return &tg.InputPhotoFileLocation{
			ID:            l.ID,
			AccessHash:    l.AccessHash,
			FileReference: l.FileReference,
			ThumbSize:     thumb,
		}
	}
	return &tg.InputDocumentFileLocation{
		ID:            l.ID,
		AccessHash:    l.AccessHash,
		FileReference: l.FileReference,
	}
}

// EncodePhoto кодирует tg.Photo в file_id, выбирая наибольший доступный
// размер. Вторым значением возвращается file_unique_id.
func EncodePhoto(photo *tg.Photo) (string, string) {
	if photo == nil {
		return "", ""
	}

	thumbType := byte('y')
	if best := largestSize(photo); best != nil && len(best.Type) > 0 {
		thumbType = best.Type[0]
	}

	loc := Location{
		Type:          TypePhoto,
		DCID:          photo.DCID,
		ID:            photo.ID,
		AccessHash:    photo.AccessHash,
		FileReference: photo.FileReference,
		ThumbType:     thumbType,
	}
	return encode(loc), encodeUnique(1, photo.ID)
}

// EncodeDocument кодирует tg.Document в file_id. fileType — одна из
// констант Type*, определяемая по атрибутам документа.
func EncodeDocument(doc *tg.Document, fileType int) (string, string) {
	if doc == nil {
		return "", ""
	}
	if fileType < TypeVoice {
		fileType = TypeDocument
	}

	loc := Location{
		Type:          fileType,
		DCID:          doc.DCID,
		ID:            doc.ID,
		AccessHash:    doc.AccessHash,
		FileReference: doc.FileReference,
	}
	return encode(loc), encodeUnique(2, doc.ID)
}

// DetectDocumentType определяет вид файла по атрибутам документа.
// Анимация проверяется раньше видео: GIF несет оба атрибута.
func DetectDocumentType(doc *tg.Document) int {
	if doc == nil {
		return TypeDocument
	}

	var videoAttr *tg.DocumentAttributeVideo
	var audioAttr *tg.DocumentAttributeAudio
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeAnimated:
			return TypeAnimation
		case *tg.DocumentAttributeSticker:
			return TypeSticker
		case *tg.DocumentAttributeVideo:
			videoAttr = a
		case *tg.DocumentAttributeAudio:
			audioAttr = a
		}
	}

	switch {
	case videoAttr != nil && videoAttr.RoundMessage:
		return TypeVideoNote
	case videoAttr != nil:
		return TypeVideo
	case audioAttr != nil && audioAttr.Voice:
		return TypeVoice
	case audioAttr != nil:
		return TypeAudio
	}
	return TypeDocument
}

// Decode разбирает file_id, закодированный encode. Строки чужого
// происхождения (web-локации, неизвестные источники размера) отклоняются.
func Decode(fileID string) (*Location, error) {
	raw, err := base64.RawURLEncoding.DecodeString(fileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileID, err)
	}
	buf, err := rleDecode(raw)
	if err != nil {
		return nil, err
	}

	r := &reader{buf: buf}
	typeID := r.int32()
	if typeID&webLocationFlag != 0 {
		return nil, fmt.Errorf("%w: web locations are not supported", ErrInvalidFileID)
	}
	hasRef := typeID&fileReferenceFlag != 0
	typ := int(typeID &^ (fileReferenceFlag | webLocationFlag))

	loc := &Location{Type: typ, DCID: int(r.int32())}
	if hasRef {
		loc.FileReference = r.tlBytes()
	}
	loc.ID = r.int64()
	loc.AccessHash = r.int64()

	if typ == TypePhoto {
		switch source := r.int32(); source {
		case photoSizeSourceThumbnail:
			r.int32() // вид файла, дублирует typ
			loc.ThumbType = byte(r.int32())
		case photoSizeSourceFullLegacy:
			r.int64()
			r.int32()
		default:
			return nil, fmt.Errorf("%w: unsupported photo size source %d", ErrInvalidFileID, source)
		}
	}

	if r.err != nil {
		return nil, fmt.Errorf("%w: truncated payload", ErrInvalidFileID)
	}
	return loc, nil
}

// largestSize возвращает наибольший размер фотографии.
func largestSize(photo *tg.Photo) *tg.PhotoSize {
	var best *tg.PhotoSize
	maxArea := 0
	for _, size := range photo.Sizes {
		if ps, ok := size.(*tg.PhotoSize); ok {
			if area := ps.W * ps.H; area > maxArea {
				maxArea = area
				best = ps
			}
		}
	}
	return best
}

// encode сериализует Location в строку file_id.
func encode(loc Location) string {
	buf := make([]byte, 0, 64)

	typeID := int32(loc.Type)
	if len(loc.FileReference) > 0 {
		typeID |= fileReferenceFlag
	}
	buf = appendInt32(buf, typeID)
	buf = appendInt32(buf, int32(loc.DCID))
	if len(loc.FileReference) > 0 {
		buf = appendTLBytes(buf, loc.FileReference)
	}
	buf = appendInt64(buf, loc.ID)
	buf = appendInt64(buf, loc.AccessHash)

	if loc.Type == TypePhoto {
		buf = appendInt32(buf, photoSizeSourceThumbnail)
		buf = appendInt32(buf, int32(TypePhoto))
		buf = appendInt32(buf, int32(loc.ThumbType))
	}

	buf = append(buf, byte(formatSubVersion), byte(formatVersion))
	return base64.RawURLEncoding.EncodeToString(rleEncode(buf))
}

// encodeUnique сериализует file_unique_id: вид + идентификатор файла.
func encodeUnique(uniqueType int32, id int64) string {
	buf := appendInt32(nil, uniqueType)
	buf = appendInt64(buf, id)
	return base64.RawURLEncoding.EncodeToString(rleEncode(buf))
}

func appendInt64(buf []byte, v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return append(buf, b[:]...)
}

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

// appendTLBytes кодирует байты в TL-стиле: длина, данные, выравнивание
// до границы 4 байт.
func appendTLBytes(buf []byte, data []byte) []byte {
	length := len(data)
	if length < 254 {
		buf = append(buf, byte(length))
		buf = append(buf, data...)
		for i := 0; i < (4-(1+length)%4)%4; i++ {
			buf = append(buf, 0)
		}
		return buf
	}

	buf = append(buf, 0xFE, byte(length&0xFF), byte((length>>8)&0xFF), byte((length>>16)&0xFF))
	buf = append(buf, data...)
	for i := 0; i < (4-length%4)%4; i++ {
		buf = append(buf, 0)
	}
	return buf
}

// rleEncode сжимает последовательности нулей парами (0, count).
func rleEncode(data []byte) []byte {
	var encoded []byte
	for i := 0; i < len(data); {
		if data[i] != 0 {
			encoded = append(encoded, data[i])
			i++
			continue
		}
		count := 0
		for i < len(data) && data[i] == 0 && count < 255 {
			count++
			i++
		}
		encoded = append(encoded, 0, byte(count))
	}
	return encoded
}

// rleDecode разворачивает пары (0, count) обратно в нули.
func rleDecode(data []byte) ([]byte, error) {
	var decoded []byte
	for i := 0; i < len(data); i++ {
		if data[i] != 0 {
			decoded = append(decoded, data[i])
			continue
		}
		i++
		if i >= len(data) {
			return nil, fmt.Errorf("%w: dangling zero marker", ErrInvalidFileID)
		}
		for j := byte(0); j < data[i]; j++ {
			decoded = append(decoded, 0)
		}
	}
	return decoded, nil
}

// reader последовательно читает числа из буфера, накапливая ошибку.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.buf) {
		r.err = ErrInvalidFileID
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *reader) int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *reader) tlBytes() []byte {
	first := r.take(1)
	if first == nil {
		return nil
	}
	var length, padded int
	if first[0] < 254 {
		length = int(first[0])
		padded = (4 - (1+length)%4) % 4
	} else {
		b := r.take(3)
		if b == nil {
			return nil
		}
		length = int(b[0]) | int(b[1])<<8 | int(b[2])<<16
		padded = (4 - length%4) % 4
	}
	data := r.take(length)
	r.take(padded)
	if data == nil {
		return nil
	}
	out := make([]byte, length)
	copy(out, data)
	return out
}
