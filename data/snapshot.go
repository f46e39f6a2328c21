package data

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ItemSnapshot is the point-in-time record a host returns for one storage item.
// It is never built locally except by decoding a host response.
type ItemSnapshot struct {
	// Opaque identifier, unique within one host session
	ID string `json:"id"`

	// Name of the item within its parent folder
	Name string `json:"name"`

	IsFile bool `json:"isFile"`
}

// Kind returns the item kind described by the snapshot.
func (s *ItemSnapshot) Kind() ItemKind {
	if s.IsFile {
		return KindFile
	}
	return KindFolder
}

// Marshal provides JSON serialization for ItemSnapshot.
func (s *ItemSnapshot) Marshal() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSnapshot parses a single snapshot returned by a host.
// The empty string is the host's null signal and yields (nil, nil).
func DecodeSnapshot(raw string) (*ItemSnapshot, error) {
	if raw == "" {
		return nil, nil
	}

	var snapshot ItemSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: invalid item snapshot: %w", ErrIO, err)
	}

	if snapshot.ID == "" {
		return nil, fmt.Errorf("%w: item snapshot without identifier", ErrIO)
	}

	return &snapshot, nil
}

// DecodeSnapshots parses an array of snapshots returned by a listing call.
// Listings are mandatory values, so an empty response is an error.
func DecodeSnapshots(raw string) ([]*ItemSnapshot, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing item listing", ErrIO)
	}

	var snapshots []*ItemSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		return nil, fmt.Errorf("%w: invalid item listing: %w", ErrIO, err)
	}

	for i, snapshot := range snapshots {
		if snapshot == nil {
			return nil, fmt.Errorf("%w: item listing entry %d is null", ErrIO, i)
		}
		if snapshot.ID == "" {
			return nil, fmt.Errorf("%w: item listing entry %d without identifier", ErrIO, i)
		}
	}

	return snapshots, nil
}

// MarshalSnapshots encodes a listing the way hosts are expected to return it.
func MarshalSnapshots(snapshots []*ItemSnapshot) (string, error) {
	if snapshots == nil {
		snapshots = []*ItemSnapshot{}
	}

	b, err := json.Marshal(snapshots)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
