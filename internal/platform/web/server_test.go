package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	gc := config.Default()
	gc.Speed.TickMs = 50
	gc.Speed.MinTickMs = 50

	srv := NewServer(DefaultServerConfig(), session.Launcher{Game: gc, FPS: 60, Seed: 1}, store)
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler(ctx))
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads server messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

// minColumn returns the leftmost occupied column, or -1 for an empty board.
func minColumn(p *FramePayload) int {
	best := -1
	for _, row := range p.Grid {
		for x, label := range row {
			if label != "" && (best < 0 || x < best) {
				best = x
			}
		}
	}
	return best
}

func cellCount(p *FramePayload) int {
	n := 0
	for _, row := range p.Grid {
		for _, label := range row {
			if label != "" {
				n++
			}
		}
	}
	return n
}

func isFrame(msg ServerMessage) bool {
	return msg.Type == MsgFrame && msg.Frame != nil
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgHello, Player: "alice", Variant: "mini"}))

	welcome := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgWelcome })
	assert.NotEmpty(t, welcome.SessionID)
	assert.Equal(t, "mini", welcome.Variant)

	// Wait for the first piece to be fully on the board.
	first := readUntil(t, conn, func(m ServerMessage) bool {
		return isFrame(m) && cellCount(m.Frame) == 4
	})
	require.Len(t, first.Frame.Grid, 16)
	require.Len(t, first.Frame.Grid[0], 8)
	assert.Len(t, first.Frame.Compact, 8)
	assert.NotEmpty(t, first.Frame.Stats.Piece)
	assert.Equal(t, "desktop", first.Frame.Stats.Input)
	assert.Equal(t, 1, srv.Hub().Count())

	col := minColumn(first.Frame)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgKey, Code: input.KeyArrowLeft, Down: true}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgKey, Code: input.KeyArrowLeft}))
	readUntil(t, conn, func(m ServerMessage) bool {
		return isFrame(m) && cellCount(m.Frame) == 4 && minColumn(m.Frame) == col-1
	})

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgVisibility, Visible: false}))
	readUntil(t, conn, func(m ServerMessage) bool { return isFrame(m) && m.Frame.Stats.Paused })

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgVisibility, Visible: true}))
	readUntil(t, conn, func(m ServerMessage) bool { return isFrame(m) && !m.Frame.Stats.Paused })
}

func TestWebSocketRequiresHello(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgKey, Code: "ArrowLeft"}))
	msg := readUntil(t, conn, func(ServerMessage) bool { return true })
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "hello")
}

func TestWebSocketUnknownVariant(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgHello, Variant: "huge"}))
	msg := readUntil(t, conn, func(ServerMessage) bool { return true })
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown variant")
}

func TestDisconnectRecordsSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	defer store.Close()

	srv, ts := newTestServer(t, store)
	conn := dial(t, ts)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgHello, Player: "bob"}))
	readUntil(t, conn, isFrame)
	conn.Close()

	require.Eventually(t, func() bool { return srv.Hub().Count() == 0 }, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		recs, err := store.PlayerHistory("bob", 10)
		return err == nil && len(recs) == 1
	}, 3*time.Second, 10*time.Millisecond)

	recs, err := store.PlayerHistory("bob", 10)
	require.NoError(t, err)
	assert.Equal(t, session.TransportWeb, recs[0].Transport)
	assert.Equal(t, session.EndDisconnect, recs[0].EndReason)
	assert.Equal(t, "classic", recs[0].GameID)
}

func TestScoresEndpoint(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveScore("classic", "bob", 12)
	require.NoError(t, err)
	_, err = store.SaveScore("classic", "eve", 30)
	require.NoError(t, err)

	_, ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/scores/classic")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var scores []scoreJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scores))
	require.Len(t, scores, 2)
	assert.Equal(t, "eve", scores[0].Player)
	assert.Equal(t, 30, scores[0].Lines)

	missing, err := http.Get(ts.URL + "/scores/huge")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestVariantsAndIndex(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/variants")
	require.NoError(t, err)
	defer resp.Body.Close()

	var variants []variantJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&variants))
	ids := make([]string, 0, len(variants))
	for _, v := range variants {
		ids = append(ids, v.ID)
	}
	assert.Contains(t, ids, "classic")
	assert.Contains(t, ids, "mini")

	index, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer index.Body.Close()
	assert.Equal(t, http.StatusOK, index.StatusCode)
}
