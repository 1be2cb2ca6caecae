package wsclient

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	readTimeout  = time.Minute
	pingInterval = 50 * time.Second
	writeTimeout = time.Second
)

// Session keeps a subscriber socket alive. Outgoing events are written by the hub.
type Session struct {
	conn   *websocket.Conn
	logger *log.Entry
}

func NewSession(userID string, conn *websocket.Conn) *Session {
	return &Session{
		conn:   conn,
		logger: log.WithField("user_id", userID),
	}
}

// Listen blocks until the peer disconnects or stops answering pings.
func (s *Session) Listen() {
	if s.conn == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.extendDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendDeadline()
		return nil
	})
	go s.keepAlive(ctx)

	for {
		kind, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.WithError(err).Debug("ws connection dropped")
			}
			return
		}
		s.extendDeadline()
		s.logger.WithField("type", kind).WithField("size", len(payload)).Debug("inbound ws frame dropped")
	}
}

func (s *Session) extendDeadline() {
	_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
}

func (s *Session) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
			return
		}
	}
}
