package remote

import (
	"time"

	"github.com/mwantia/hostfs/log"
)

type ClientOption func(*Client)

func WithClientLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger
	}
}

// WithHandshakeTimeout bounds the websocket handshake done by Dial.
func WithHandshakeTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.handshakeTimeout = timeout
	}
}

type ServerOption func(*Server)

func WithServerLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.log = logger
	}
}

// WithCheckOrigin replaces the origin check of the websocket upgrader.
// By default every origin is accepted.
func WithCheckOrigin(check func(origin string) bool) ServerOption {
	return func(s *Server) {
		s.checkOrigin = check
	}
}
