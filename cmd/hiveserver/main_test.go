package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/hiveserver/hiveserver/internal/config"
	"github.com/hiveserver/hiveserver/internal/ws"
)

func newTestMux(t *testing.T, allow []string, devMode bool) (*httptest.Server, func()) {
	t.Helper()
	cfg := config.Config{
		MoveClockBudget:      30 * time.Second,
		BotSearchDepth:       1,
		BotDelayMin:          time.Millisecond,
		BotDelayMax:          2 * time.Millisecond,
		RotationPauseSeconds: 5,
		OriginAllowlist:      allow,
	}
	stop := make(chan struct{})
	engine := ws.NewEngine(cfg, nil, zerolog.Nop())
	hub := ws.NewHub(allow, devMode, engine, zerolog.Nop())
	engine.SetBroadcaster(hub)
	go engine.Run(stop)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httptest.NewServer(cors(allow, devMode, mux))
	return srv, func() { close(stop); srv.Close() }
}

func TestHealthEndpointReturnsOK(t *testing.T) {
	srv, cleanup := newTestMux(t, nil, true)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	srv, cleanup := newTestMux(t, []string{"https://hive.example"}, false)
	defer cleanup()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "https://hive.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://hive.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSDeniesUnlistedOriginOutsideDevMode(t *testing.T) {
	srv, cleanup := newTestMux(t, []string{"https://hive.example"}, false)
	defer cleanup()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebsocketJoinReceivesStateSnapshot(t *testing.T) {
	srv, cleanup := newTestMux(t, nil, true)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// The initial connect already triggers a state snapshot; read it first.
	_, _, err = conn.Read(ctx)
	require.NoError(t, err)

	err = conn.Write(ctx, websocket.MessageText, []byte(`{"t":"join_as_human","m":{"name":"alice"}}`))
	require.NoError(t, err)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"t":"state"`)
}

func TestWebsocketGameActionUsesDocumentedWireSchema(t *testing.T) {
	srv, cleanup := newTestMux(t, nil, true)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws"

	white, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer white.Close(websocket.StatusNormalClosure, "done")
	_, _, err = white.Read(ctx) // initial snapshot
	require.NoError(t, err)

	black, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer black.Close(websocket.StatusNormalClosure, "done")
	_, _, err = black.Read(ctx) // initial snapshot
	require.NoError(t, err)

	require.NoError(t, white.Write(ctx, websocket.MessageText, []byte(`{"t":"join_as_human","m":{"name":"alice"}}`)))
	_, _, err = white.Read(ctx) // state after alice seats
	require.NoError(t, err)
	_, _, err = black.Read(ctx)
	require.NoError(t, err)

	require.NoError(t, black.Write(ctx, websocket.MessageText, []byte(`{"t":"join_as_human","m":{"name":"bob"}}`)))
	_, _, err = white.Read(ctx) // state after match starts
	require.NoError(t, err)
	_, _, err = black.Read(ctx)
	require.NoError(t, err)

	action := `{"t":"game_action","m":{"type":"PLACE","piece":{"type":"QUEEN","color":"WHITE"},"hex":"0,0"}}`
	require.NoError(t, white.Write(ctx, websocket.MessageText, []byte(action)))

	_, data, err := white.Read(ctx)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"t":"state"`)
	assert.Contains(t, body, `"currentPlayer":"BLACK"`)
	assert.Contains(t, body, `"type":"QUEEN"`)
	assert.Contains(t, body, `"color":"WHITE"`)
}
