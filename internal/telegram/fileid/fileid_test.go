package fileid

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDocument(t *testing.T) {
	doc := &tg.Document{
		ID:            123456789,
		AccessHash:    -987654321,
		FileReference: []byte{0x01, 0x02, 0x03, 0x00, 0x05},
		DCID:          2,
	}

	fileID, uniqueID := EncodeDocument(doc, TypeVideo)
	require.NotEmpty(t, fileID)
	require.NotEmpty(t, uniqueID)

	loc, err := Decode(fileID)
	require.NoError(t, err)

	assert.Equal(t, TypeVideo, loc.Type)
	assert.Equal(t, 2, loc.DCID)
	assert.Equal(t, int64(123456789), loc.ID)
	assert.Equal(t, int64(-987654321), loc.AccessHash)
	assert.Equal(t, doc.FileReference, loc.FileReference)

	input, ok := loc.InputLocation().(*tg.InputDocumentFileLocation)
	require.True(t, ok)
	assert.Equal(t, doc.ID, input.ID)
	assert.Equal(t, doc.AccessHash, input.AccessHash)
}

func TestEncodeDecodePhoto(t *testing.T) {
	photo := &tg.Photo{
		ID:            42,
		AccessHash:    7,
		FileReference: []byte{0xAA},
		DCID:          4,
		Sizes: []tg.PhotoSizeClass{
			&tg.PhotoSize{Type: "m", W: 320, H: 240},
			&tg.PhotoSize{Type: "y", W: 1280, H: 960},
		},
	}

	fileID, uniqueID := EncodePhoto(photo)
	require.NotEmpty(t, fileID)
	require.NotEmpty(t, uniqueID)

	loc, err := Decode(fileID)
	require.NoError(t, err)

	assert.Equal(t, TypePhoto, loc.Type)
	assert.Equal(t, int64(42), loc.ID)
	assert.Equal(t, byte('y'), loc.ThumbType)

	input, ok := loc.InputLocation().(*tg.InputPhotoFileLocation)
	require.True(t, ok)
	assert.Equal(t, "y", input.ThumbSize)
}

func TestDetectDocumentType(t *testing.T) {
	cases := []struct {
		name  string
		attrs []tg.DocumentAttributeClass
		want  int
	}{
		{"PlainDocument", nil, TypeDocument},
		{"Video", []tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{Duration: 10}}, TypeVideo},
		{"VideoNote", []tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{RoundMessage: true}}, TypeVideoNote},
		{"Voice", []tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{Voice: true}}, TypeVoice},
		{"Audio", []tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{}}, TypeAudio},
		{"Sticker", []tg.DocumentAttributeClass{&tg.DocumentAttributeSticker{}}, TypeSticker},
		{
			// GIF несет и видео-атрибут, и атрибут анимации.
			"AnimationWinsOverVideo",
			[]tg.DocumentAttributeClass{
				&tg.DocumentAttributeVideo{Duration: 3},
				&tg.DocumentAttributeAnimated{},
			},
			TypeAnimation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &tg.Document{Attributes: tc.attrs}
			assert.Equal(t, tc.want, DetectDocumentType(doc))
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("not a file id !!!")
	assert.ErrorIs(t, err, ErrInvalidFileID)

	_, err = Decode("AAAA")
	assert.ErrorIs(t, err, ErrInvalidFileID)
}
