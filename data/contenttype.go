package data

import (
	"path"
	"strings"
)

// ContentType is the MIME type reported for a file, derived from its name.
type ContentType string

const (
	ContentTypeTextPlain         ContentType = "text/plain"
	ContentTypeTextMarkdown      ContentType = "text/markdown"
	ContentTypeTextHTML          ContentType = "text/html"
	ContentTypeTextCSV           ContentType = "text/csv"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageJPEG         ContentType = "image/jpeg"
	ContentTypeImageGIF          ContentType = "image/gif"
	ContentTypeImageWebP         ContentType = "image/webp"
	ContentTypeImageSVGXML       ContentType = "image/svg+xml"
	ContentTypeApplicationJson   ContentType = "application/json"
	ContentTypeApplicationXML    ContentType = "application/xml"
	ContentTypeApplicationYAML   ContentType = "application/yaml"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationGZip   ContentType = "application/gzip"
	ContentTypeApplicationXTar   ContentType = "application/x-tar"
	ContentTypeApplicationStream ContentType = "application/octet-stream"
)

var contentTypes = map[string]ContentType{
	".txt":  ContentTypeTextPlain,
	".log":  ContentTypeTextPlain,
	".md":   ContentTypeTextMarkdown,
	".html": ContentTypeTextHTML,
	".csv":  ContentTypeTextCSV,
	".png":  ContentTypeImagePNG,
	".jpg":  ContentTypeImageJPEG,
	".jpeg": ContentTypeImageJPEG,
	".gif":  ContentTypeImageGIF,
	".webp": ContentTypeImageWebP,
	".svg":  ContentTypeImageSVGXML,
	".json": ContentTypeApplicationJson,
	".xml":  ContentTypeApplicationXML,
	".yaml": ContentTypeApplicationYAML,
	".yml":  ContentTypeApplicationYAML,
	".zip":  ContentTypeApplicationZip,
	".gz":   ContentTypeApplicationGZip,
	".tar":  ContentTypeApplicationXTar,
}

// ContentTypeOf returns the content type for an item name or key.
// Unknown extensions are reported as an octet stream.
func ContentTypeOf(name string) ContentType {
	if contentType, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return contentType
	}
	return ContentTypeApplicationStream
}

// IsText reports whether the content can be shown as text.
func (c ContentType) IsText() bool {
	if strings.HasPrefix(string(c), "text/") {
		return true
	}
	switch c {
	case ContentTypeApplicationJson, ContentTypeApplicationXML, ContentTypeApplicationYAML, ContentTypeImageSVGXML:
		return true
	}
	return false
}

// IsRaster reports whether the content is a bitmap image the preview can decode.
func (c ContentType) IsRaster() bool {
	switch c {
	case ContentTypeImagePNG, ContentTypeImageJPEG, ContentTypeImageGIF, ContentTypeImageWebP:
		return true
	}
	return false
}

// IsArchive reports whether the content is a packed archive.
func (c ContentType) IsArchive() bool {
	switch c {
	case ContentTypeApplicationZip, ContentTypeApplicationGZip, ContentTypeApplicationXTar:
		return true
	}
	return false
}
