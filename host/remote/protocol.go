// Package remote carries the host bridge over a websocket connection, so a
// session can use a host running in another process.
package remote

import (
	errs "github.com/mwantia/hostfs/data/errors"
)

// Methods understood by the server. Each maps to the host.Host method of the same name.
const (
	MethodDescribe        = "describe"
	MethodOpenPrivateRoot = "openPrivateRoot"
	MethodCreateFolder    = "createFolder"
	MethodCreateFile      = "createFile"
	MethodTryGetFolder    = "tryGetFolder"
	MethodTryGetFile      = "tryGetFile"
	MethodListItems       = "listItems"
	MethodListFiles       = "listFiles"
	MethodListFolders     = "listFolders"
	MethodDeleteItem      = "deleteItem"
	MethodOpenStream      = "openStream"
	MethodReadStream      = "readStream"
	MethodCloseStream     = "closeStream"
)

// Request is sent by the client. Requests with ID 0 expect no response.
type Request struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`

	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name,omitempty"`

	StreamID string `json:"streamId,omitempty"`
	FileID   string `json:"fileId,omitempty"`
	Count    int    `json:"count,omitempty"`
	Position int64  `json:"position,omitempty"`
}

// Response answers the request with the same ID. Result is the host result
// string, Data carries the bytes of a readStream call.
type Response struct {
	ID     uint64 `json:"id"`
	Result string `json:"result"`
	Data   []byte `json:"data,omitempty"`

	Code  errs.Code `json:"code,omitempty"`
	Error string    `json:"error,omitempty"`
}

func (r *Response) err() error {
	return errs.FromCode(r.Code, r.Error)
}
