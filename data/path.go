package data

import (
	"path"
	"strings"
)

// JoinKey appends name to a parent key. The root key is "".
func JoinKey(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// ParentKey returns the key of the folder containing key.
func ParentKey(key string) string {
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		return key[:idx]
	}
	return ""
}

// BaseName returns the last element of key.
func BaseName(key string) string {
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// ValidName reports whether name can be used for a single item.
// Names must be non-empty, must not contain a separator and must not be a dot entry.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// NormalizeKey cleans a user supplied path into a backend key.
func NormalizeKey(p string) string {
	cleaned := path.Clean("/" + p)
	return strings.TrimPrefix(cleaned, "/")
}
