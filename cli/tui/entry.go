package tui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/data"
)

// Entry is one row of the folder listing.
type Entry struct {
	Item hostfs.Item
}

func (e *Entry) Name() string {
	return e.Item.Name()
}

func (e *Entry) IsFolder() bool {
	return e.Item.Kind() == data.KindFolder
}

// DisplayName returns the name with a trailing "/" for folders.
func (e *Entry) DisplayName() string {
	if e.IsFolder() {
		return e.Name() + "/"
	}
	return e.Name()
}

// DisplayType returns "<DIR>" for folders and the content type for files.
func (e *Entry) DisplayType() string {
	if file, ok := e.Item.(*hostfs.File); ok {
		return string(file.ContentType())
	}
	return "<DIR>"
}

func (e *Entry) Icon() string {
	file, ok := e.Item.(*hostfs.File)
	if !ok {
		return "📁"
	}

	contentType := file.ContentType()
	switch {
	case strings.HasPrefix(string(contentType), "image/"):
		return "🖼️"
	case contentType.IsArchive():
		return "📦"
	default:
		return "📄"
	}
}

// sortEntries orders folders before files, each by name.
func sortEntries(entries []*Entry) {
	slices.SortFunc(entries, func(a, b *Entry) int {
		if a.IsFolder() != b.IsFolder() {
			if a.IsFolder() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name(), b.Name())
	})
}
