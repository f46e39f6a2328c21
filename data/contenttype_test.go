package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeOf(t *testing.T) {
	tests := map[string]ContentType{
		"notes.txt":         ContentTypeTextPlain,
		"docs/README.MD":    ContentTypeTextMarkdown,
		"photo.JPEG":        ContentTypeImageJPEG,
		"config.yml":        ContentTypeApplicationYAML,
		"backup.tar.gz":     ContentTypeApplicationGZip,
		"tool":              ContentTypeApplicationStream,
		"archive/file.bin":  ContentTypeApplicationStream,
		"dir.with.dots/raw": ContentTypeApplicationStream,
	}

	for name, expected := range tests {
		assert.Equal(t, expected, ContentTypeOf(name), name)
	}
}

func TestContentType_Classes(t *testing.T) {
	assert.True(t, ContentTypeTextCSV.IsText())
	assert.True(t, ContentTypeApplicationJson.IsText())
	assert.True(t, ContentTypeImageSVGXML.IsText())
	assert.False(t, ContentTypeImagePNG.IsText())

	assert.True(t, ContentTypeImageWebP.IsRaster())
	assert.False(t, ContentTypeImageSVGXML.IsRaster())

	assert.True(t, ContentTypeApplicationXTar.IsArchive())
	assert.False(t, ContentTypeApplicationStream.IsArchive())
}
