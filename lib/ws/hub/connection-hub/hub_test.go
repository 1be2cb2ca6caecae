package connectionhub

import (
	"sync"
	"testing"
	"time"

	"blytzwork-backend/lib/utils/testdb"
	dbmodels "blytzwork-backend/models/db"
	wsmodels "blytzwork-backend/models/ws"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   []wsmodels.ServerMessage
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, v.(wsmodels.ServerMessage))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []wsmodels.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]wsmodels.ServerMessage{}, c.msgs...)
}

func TestHub(t *testing.T) {
	t.Run("offline push is delivered on connect check", func(t *testing.T) {
		tx := testdb.New(t)
		hub := NewHub(tx)
		require.False(t, hub.IsConnected("u1"))
		require.NoError(t, hub.Push(wsmodels.ServerMessage{ToUserID: "u1", Code: "MATCH_CREATED", EntityID: "m1", Msg: "match"}))

		var count int64
		require.NoError(t, tx.Model(&dbmodels.PendingPush{}).Count(&count).Error)
		require.Equal(t, int64(1), count)

		conn := &fakeConn{}
		hub.AddClient("u1", conn)
		require.Eventually(t, func() bool {
			return len(conn.received()) == 1
		}, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, "m1", conn.received()[0].EntityID)
		require.Eventually(t, func() bool {
			var left int64
			tx.Model(&dbmodels.PendingPush{}).Count(&left)
			return left == 0
		}, 2*time.Second, 10*time.Millisecond)
	})
	t.Run("online push check", func(t *testing.T) {
		tx := testdb.New(t)
		hub := NewHub(tx)
		conn := &fakeConn{}
		hub.AddClient("u2", conn)
		require.True(t, hub.IsConnected("u2"))
		require.NoError(t, hub.Push(wsmodels.ServerMessage{ToUserID: "u2", Code: "CHAT_MESSAGE", Msg: "hi"}))
		require.Eventually(t, func() bool {
			return len(conn.received()) == 1
		}, 2*time.Second, 10*time.Millisecond)
		require.NotEmpty(t, conn.received()[0].Time)
	})
	t.Run("replaced session check", func(t *testing.T) {
		tx := testdb.New(t)
		hub := NewHub(tx)
		first := &fakeConn{}
		second := &fakeConn{}
		hub.AddClient("u3", first)
		hub.AddClient("u3", second)
		// the stale connection must not unregister the new one
		hub.DeleteClient("u3", first)
		require.True(t, hub.IsConnected("u3"))
		hub.DeleteClient("u3", second)
		require.False(t, hub.IsConnected("u3"))
	})
}
