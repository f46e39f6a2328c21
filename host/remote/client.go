package remote

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/log"
)

// Client implements host.Host by forwarding every call to a Server.
type Client struct {
	conn *websocket.Conn
	log  *log.Logger

	handshakeTimeout time.Duration
	provider         host.Provider

	nextID  atomic.Uint64
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan *Response

	closeCh   chan struct{}
	closeOnce sync.Once
}

var (
	_ host.Host      = (*Client)(nil)
	_ host.Describer = (*Client)(nil)
)

// Dial connects to the server at url ("ws://" or "wss://") and asks it to describe its host.
func Dial(ctx context.Context, url string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		log:              log.Discard(),
		handshakeTimeout: 10 * time.Second,
		pending:          make(map[uint64]chan *Response),
		closeCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", data.ErrIO, url, err)
	}
	c.conn = conn

	go c.readLoop()

	c.provider = host.Provider{ID: "remote", DisplayName: url}
	response, err := c.call(ctx, &Request{Method: MethodDescribe})
	if err != nil {
		c.Close()
		return nil, err
	}
	if response.Result != "" {
		if err := json.Unmarshal([]byte(response.Result), &c.provider); err != nil {
			c.log.Warn("Ignoring invalid provider description: %v", err)
		}
	}

	c.log.Debug("Connected to %s (%s)", url, c.provider.DisplayName)
	return c, nil
}

func (c *Client) Provider() host.Provider {
	return c.provider
}

// Close ends the connection. Pending calls fail with data.ErrIO.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.writeMu.Lock()
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer c.Close()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closeCh:
			default:
				c.log.Warn("Connection lost: %v", err)
			}
			return
		}

		var response Response
		if err := json.Unmarshal(message, &response); err != nil {
			c.log.Warn("Dropped malformed response: %v", err)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[response.ID]
		delete(c.pending, response.ID)
		c.mu.Unlock()

		if ok {
			ch <- &response
		}
	}
}

func (c *Client) send(request *Request) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) call(ctx context.Context, request *Request) (*Response, error) {
	request.ID = c.nextID.Add(1)
	ch := make(chan *Response, 1)

	c.mu.Lock()
	c.pending[request.ID] = ch
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, request.ID)
		c.mu.Unlock()
	}

	if err := c.send(request); err != nil {
		forget()
		return nil, fmt.Errorf("%w: failed to send %s: %w", data.ErrIO, request.Method, err)
	}

	select {
	case <-ctx.Done():
		forget()
		return nil, ctx.Err()
	case <-c.closeCh:
		forget()
		return nil, fmt.Errorf("%w: connection closed during %s", data.ErrIO, request.Method)
	case response := <-ch:
		if err := response.err(); err != nil {
			return nil, err
		}
		return response, nil
	}
}

func (c *Client) result(ctx context.Context, request *Request) (string, error) {
	response, err := c.call(ctx, request)
	if err != nil {
		return "", err
	}
	return response.Result, nil
}

func (c *Client) OpenPrivateRoot(ctx context.Context) (string, error) {
	return c.result(ctx, &Request{Method: MethodOpenPrivateRoot})
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	return c.result(ctx, &Request{Method: MethodCreateFolder, ParentID: parentID, Name: name})
}

func (c *Client) CreateFile(ctx context.Context, parentID, name string) (string, error) {
	return c.result(ctx, &Request{Method: MethodCreateFile, ParentID: parentID, Name: name})
}

func (c *Client) TryGetFolder(ctx context.Context, parentID, name string) (string, error) {
	return c.result(ctx, &Request{Method: MethodTryGetFolder, ParentID: parentID, Name: name})
}

func (c *Client) TryGetFile(ctx context.Context, parentID, name string) (string, error) {
	return c.result(ctx, &Request{Method: MethodTryGetFile, ParentID: parentID, Name: name})
}

func (c *Client) ListItems(ctx context.Context, parentID string) (string, error) {
	return c.result(ctx, &Request{Method: MethodListItems, ParentID: parentID})
}

func (c *Client) ListFiles(ctx context.Context, parentID string) (string, error) {
	return c.result(ctx, &Request{Method: MethodListFiles, ParentID: parentID})
}

func (c *Client) ListFolders(ctx context.Context, parentID string) (string, error) {
	return c.result(ctx, &Request{Method: MethodListFolders, ParentID: parentID})
}

func (c *Client) DeleteItem(ctx context.Context, parentID, name string) (string, error) {
	return c.result(ctx, &Request{Method: MethodDeleteItem, ParentID: parentID, Name: name})
}

func (c *Client) OpenStream(ctx context.Context, streamID, fileID string) (string, error) {
	return c.result(ctx, &Request{Method: MethodOpenStream, StreamID: streamID, FileID: fileID})
}

// ReadStream asks the server for count bytes and copies the returned data
// into buffer at offset.
func (c *Client) ReadStream(ctx context.Context, streamID string, buffer []byte, offset, count int, position int64) (string, error) {
	if offset < 0 || count < 0 || offset > len(buffer)-count {
		return "", errs.InvalidArgument("buffer window", strconv.Itoa(offset)+"+"+strconv.Itoa(count))
	}

	response, err := c.call(ctx, &Request{
		Method:   MethodReadStream,
		StreamID: streamID,
		Count:    count,
		Position: position,
	})
	if err != nil {
		return "", err
	}
	if len(response.Data) > count {
		return "", errs.IOFailure(nil, "server returned %d bytes for a read of %d", len(response.Data), count)
	}

	copy(buffer[offset:], response.Data)
	return response.Result, nil
}

// CloseStream does not wait for the server.
func (c *Client) CloseStream(streamID string) {
	if err := c.send(&Request{Method: MethodCloseStream, StreamID: streamID}); err != nil {
		c.log.Debug("Failed to close stream '%s': %v", streamID, err)
	}
}
