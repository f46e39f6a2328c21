package data

import "time"

// FileType identifies what a backend stores at a key.
type FileType int

const (
	FileTypeFile FileType = iota
	FileTypeDirectory
)

// FileStat is the backend-level description of a stored object.
// Keys are slash separated and relative to the backend root; the root itself is "".
type FileStat struct {
	Key  string   `json:"key"`
	Type FileType `json:"type"`

	// Size in bytes (0 for directories)
	Size int64 `json:"size"`

	ModifyTime time.Time `json:"modify_time"`
	CreateTime time.Time `json:"create_time"`

	ContentType ContentType `json:"content_type"`
}

func (s *FileStat) IsDir() bool {
	return s.Type == FileTypeDirectory
}

// Name returns the last element of the key.
func (s *FileStat) Name() string {
	return BaseName(s.Key)
}
