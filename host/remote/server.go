package remote

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/log"
)

// MaxReadCount caps the bytes a single readStream request may ask for.
const MaxReadCount = 4 << 20

// Server exposes a host to websocket clients. Every connection gets its own
// set of streams, which are closed when the connection ends.
type Server struct {
	host        host.Host
	log         *log.Logger
	checkOrigin func(origin string) bool
	upgrader    websocket.Upgrader
}

func NewServer(h host.Host, opts ...ServerOption) *Server {
	s := &Server{
		host: h,
		log:  log.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if s.checkOrigin == nil {
				return true
			}
			return s.checkOrigin(r.Header.Get("Origin"))
		},
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	conn := &serverConn{
		server:  s,
		ws:      ws,
		log:     s.log.With("remote", r.RemoteAddr),
		streams: make(map[string]struct{}),
	}

	conn.log.Info("Client connected")
	conn.serve(ctx)
	cancel()

	conn.wg.Wait()
	conn.release()
	ws.Close()
	conn.log.Info("Client disconnected")
}

type serverConn struct {
	server *Server
	ws     *websocket.Conn
	log    *log.Logger
	wg     sync.WaitGroup

	writeMu sync.Mutex

	mu      sync.Mutex
	streams map[string]struct{}
}

func (c *serverConn) serve(ctx context.Context) {
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Read failed: %v", err)
			}
			return
		}

		var request Request
		if err := json.Unmarshal(message, &request); err != nil {
			c.log.Warn("Dropped malformed request: %v", err)
			continue
		}

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()

			response := c.handle(ctx, &request)
			if request.ID == 0 {
				return
			}
			response.ID = request.ID
			c.write(response)
		}()
	}
}

func (c *serverConn) write(response *Response) {
	payload, err := json.Marshal(response)
	if err != nil {
		c.log.Error("Failed to encode response %d: %v", response.ID, err)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.log.Debug("Failed to write response %d: %v", response.ID, err)
	}
}

func (c *serverConn) handle(ctx context.Context, request *Request) *Response {
	h := c.server.host

	var result string
	var data []byte
	var err error

	switch request.Method {
	case MethodDescribe:
		if describer, ok := h.(host.Describer); ok {
			var payload []byte
			if payload, err = json.Marshal(describer.Provider()); err == nil {
				result = string(payload)
			}
		}
	case MethodOpenPrivateRoot:
		result, err = h.OpenPrivateRoot(ctx)
	case MethodCreateFolder:
		result, err = h.CreateFolder(ctx, request.ParentID, request.Name)
	case MethodCreateFile:
		result, err = h.CreateFile(ctx, request.ParentID, request.Name)
	case MethodTryGetFolder:
		result, err = h.TryGetFolder(ctx, request.ParentID, request.Name)
	case MethodTryGetFile:
		result, err = h.TryGetFile(ctx, request.ParentID, request.Name)
	case MethodListItems:
		result, err = h.ListItems(ctx, request.ParentID)
	case MethodListFiles:
		result, err = h.ListFiles(ctx, request.ParentID)
	case MethodListFolders:
		result, err = h.ListFolders(ctx, request.ParentID)
	case MethodDeleteItem:
		result, err = h.DeleteItem(ctx, request.ParentID, request.Name)
	case MethodOpenStream:
		result, err = h.OpenStream(ctx, request.StreamID, request.FileID)
		if err == nil && result != "" {
			c.track(request.StreamID)
		}
	case MethodReadStream:
		result, data, err = c.readStream(ctx, request)
	case MethodCloseStream:
		c.untrack(request.StreamID)
		h.CloseStream(request.StreamID)
	default:
		err = errs.NotSupported("unknown method '%s'", request.Method)
	}

	response := &Response{
		Result: result,
		Data:   data,
	}
	if err != nil {
		c.log.Debug("%s failed: %v", request.Method, err)
		response.Code = errs.CodeOf(err)
		response.Error = err.Error()
	}
	return response
}

func (c *serverConn) readStream(ctx context.Context, request *Request) (string, []byte, error) {
	if request.Count < 0 || request.Count > MaxReadCount {
		return "", nil, errs.InvalidArgument("count", request.Count)
	}

	buffer := make([]byte, request.Count)
	result, err := c.server.host.ReadStream(ctx, request.StreamID, buffer, 0, request.Count, request.Position)
	if err != nil || result == "" {
		return result, nil, err
	}

	n, err := strconv.Atoi(result)
	if err != nil || n < 0 || n > request.Count {
		return "", nil, errs.IOFailure(nil, "invalid read count '%s'", result)
	}
	return result, buffer[:n], nil
}

func (c *serverConn) track(streamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams[streamID] = struct{}{}
}

func (c *serverConn) untrack(streamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.streams, streamID)
}

// release closes the streams the client left open.
func (c *serverConn) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for streamID := range c.streams {
		c.server.host.CloseStream(streamID)
	}
	if len(c.streams) > 0 {
		c.log.Debug("Released %d abandoned streams", len(c.streams))
	}
	clear(c.streams)
}
