package connectionhub

import (
	"context"
	"sync"

	wsmodels "blytzwork-backend/models/ws"

	log "github.com/sirupsen/logrus"
)

const sendBufferSize = 32

type clientSession struct {
	conn Conn

	// Outbound messages, buffered.
	sendCh   chan wsmodels.ServerMessage
	ctx      context.Context
	stopOnce sync.Once
	cancel   context.CancelFunc
}

func newSession(conn Conn) *clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &clientSession{
		conn:   conn,
		sendCh: make(chan wsmodels.ServerMessage, sendBufferSize),
		ctx:    ctx,
		cancel: cancelFn,
	}
	go sess.startSend()
	return sess
}

func (s *clientSession) enqueue(msg wsmodels.ServerMessage) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.sendCh <- msg:
		return true
	default:
		return false
	}
}

func (s *clientSession) stop() {
	s.stopOnce.Do(s.cancel)
}

func (s *clientSession) startSend() {
	for {
		select {
		case <-s.ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			if err := s.conn.WriteJSON(msg); err != nil {
				log.WithError(err).WithField("user_id", msg.ToUserID).Error("ws message send error")
			}
		}
	}
}

func (s *clientSession) close() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		log.WithError(err).Debug("ws close error")
	}
}
