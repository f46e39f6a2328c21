package tui

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/eliukblau/pixterm/pkg/ansimage"
	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/stream"
	_ "golang.org/x/image/webp"
)

const (
	// Bytes read from a text file for the preview pane
	textPreviewLimit = 8 * 1024
	// Larger images are not decoded
	imagePreviewLimit = 16 * 1024 * 1024
)

// previewSize is the area of the preview pane in terminal cells.
type previewSize struct {
	width  int
	height int
}

func readPreview(ctx context.Context, file *hostfs.File, size previewSize) (string, error) {
	contentType := file.ContentType()
	image := contentType.IsRaster()
	if !image && !contentType.IsText() {
		return fmt.Sprintf("(%s content)", contentType), nil
	}

	reader, err := file.OpenRead(ctx)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	if image {
		if reader.Length() > imagePreviewLimit {
			return fmt.Sprintf("(image of %d bytes is too large to preview)", reader.Length()), nil
		}

		content, err := io.ReadAll(stream.Bind(ctx, reader))
		if err != nil {
			return "", err
		}
		return renderImage(content, size)
	}

	content, err := io.ReadAll(io.LimitReader(stream.Bind(ctx, reader), textPreviewLimit))
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return "(binary content)", nil
	}

	return string(content), nil
}

// renderImage draws content with half blocks, so every cell holds two pixel rows.
func renderImage(content []byte, size previewSize) (string, error) {
	width := max(size.width, 8)
	height := max(size.height, 4) * 2

	img, err := ansimage.NewScaledFromReader(bytes.NewReader(content), height, width,
		color.Transparent, ansimage.ScaleModeFit, ansimage.NoDithering)
	if err != nil {
		return "", fmt.Errorf("%w: cannot decode image: %w", data.ErrIO, err)
	}

	return img.Render(), nil
}
