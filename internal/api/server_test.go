package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexhunt/internal/config"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := config.DefaultHexHuntConfig()
	cfg.AI.MaxDepth = 2
	cfg.AI.TimeBudgetMS = 0
	opts = append([]Option{WithSeedSource(func() int64 { return 11 })}, opts...)
	return NewServer(cfg, opts...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createGame(t *testing.T, h http.Handler, req CreateRequest) StateDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/games", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[StateDTO](t, rec)
}

func TestCreateAndGetGame(t *testing.T) {
	h := testServer(t).Handler()
	st := createGame(t, h, CreateRequest{Radius: 2, Seed: 5})

	require.Equal(t, "1", st.ID)
	require.Equal(t, 2, st.Radius)
	require.Equal(t, int64(5), st.Seed)
	require.Equal(t, "human", st.Turn)
	require.Len(t, st.Hexes, 7)
	require.Len(t, st.Edges, 30)
	require.Equal(t, 30, st.Remaining)

	rec := do(t, h, http.MethodGet, "/api/games/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[StateDTO](t, rec)
	require.Equal(t, st, got)

	rec = do(t, h, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]string](t, rec)
	require.Equal(t, []string{"1"}, list["games"])
}

func TestCreateDefaults(t *testing.T) {
	h := testServer(t).Handler()
	rec := do(t, h, http.MethodPost, "/api/games", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	st := decode[StateDTO](t, rec)
	require.Equal(t, 2, st.Radius)
	require.Equal(t, int64(11), st.Seed)
}

func TestCreateRejectsBadRequests(t *testing.T) {
	h := testServer(t).Handler()
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"radius too large", CreateRequest{Radius: 9}},
		{"negative radius", CreateRequest{Radius: -1}},
		{"unknown difficulty", CreateRequest{Difficulty: "godlike"}},
		{"bad first player", CreateRequest{FirstPlayer: "none"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/games", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("POST /api/games = %d, expected %d (%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestUnknownGame(t *testing.T) {
	h := testServer(t).Handler()
	for _, path := range []string{"/api/games/42", "/api/games/42/legal", "/api/games/42/tt"} {
		rec := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := do(t, h, http.MethodPost, "/api/games/42/move", MoveDTO{Kind: "edge"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/games/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveFlow(t *testing.T) {
	h := testServer(t).Handler()
	createGame(t, h, CreateRequest{Radius: 2, Seed: 3})

	rec := do(t, h, http.MethodGet, "/api/games/1/legal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	legal := decode[struct {
		Turn  string    `json:"turn"`
		Moves []MoveDTO `json:"moves"`
	}](t, rec)
	require.Equal(t, "human", legal.Turn)
	require.Len(t, legal.Moves, 30)

	rec = do(t, h, http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "edge", Edge: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[MoveResponse](t, rec)
	require.Equal(t, "human", resp.Outcome.Player)
	require.Equal(t, "ai", resp.State.Turn)
	require.Equal(t, "human", resp.State.Edges[0].Claim)

	// Same edge again: illegal, and it is not the human's turn anyway.
	rec = do(t, h, http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "edge", Edge: 0})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/games/1/hint", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/games/1/ai-move", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decode[MoveResponse](t, rec)
	require.Equal(t, "ai", resp.Outcome.Player)
	require.NotNil(t, resp.Search)
	require.GreaterOrEqual(t, resp.Search.Depth, 1)
	require.Positive(t, resp.Search.Stats.Nodes)

	rec = do(t, h, http.MethodGet, "/api/games/1/tt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tt := decode[TableDTO](t, rec)
	require.True(t, tt.Enabled)
	require.Positive(t, tt.Entries)

	rec = do(t, h, http.MethodDelete, "/api/games/1/tt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/games/1/tt", nil)
	require.Zero(t, decode[TableDTO](t, rec).Entries)
}

func TestMoveBadPayload(t *testing.T) {
	h := testServer(t).Handler()
	createGame(t, h, CreateRequest{Radius: 1})

	rec := do(t, h, http.MethodPost, "/api/games/1/move", "not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "teleport"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "edge", Edge: 77})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "edge not on board"))
}

func TestAIMoveWrongTurn(t *testing.T) {
	h := testServer(t).Handler()
	createGame(t, h, CreateRequest{Radius: 1})
	rec := do(t, h, http.MethodPost, "/api/games/1/ai-move", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestFinishedGameIsSaved(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer store.Close()

	h := testServer(t, WithStore(store)).Handler()
	createGame(t, h, CreateRequest{Radius: 1, Seed: 2})

	for i := 0; i < 20; i++ {
		rec := do(t, h, http.MethodGet, "/api/games/1", nil)
		st := decode[StateDTO](t, rec)
		if st.Terminal {
			require.NotEmpty(t, st.Winner)
			break
		}
		if st.Turn == "ai" {
			rec = do(t, h, http.MethodPost, "/api/games/1/ai-move", nil)
		} else {
			var edge int
			for _, e := range st.Edges {
				if e.Claim == "none" {
					edge = e.ID
					break
				}
			}
			rec = do(t, h, http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "edge", Edge: edge})
		}
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	matches, err := store.RecentMatches("hexhunt-r1", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "api", matches[0].Source)
	require.Equal(t, 6, matches[0].Moves)
}

func TestDeleteGame(t *testing.T) {
	h := testServer(t).Handler()
	createGame(t, h, CreateRequest{})
	rec := do(t, h, http.MethodDelete, "/api/games/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/games/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebsocketReceivesMoves(t *testing.T) {
	srv := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	createGame(t, srv.Handler(), CreateRequest{Radius: 2, Seed: 4})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "state", ev.Type)
	require.Equal(t, "1", ev.Game)

	require.Eventually(t, func() bool { return srv.Hub().Subscribers("1") == 1 }, time.Second, 10*time.Millisecond)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/games/1/move", MoveDTO{Kind: "edge", Edge: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "move", ev.Type)
	var resp MoveResponse
	require.NoError(t, json.Unmarshal(ev.Payload, &resp))
	require.Equal(t, 3, resp.Outcome.Move.Edge)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "request_state"}))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "state", ev.Type)
}

func TestWebsocketUnknownGame(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/9"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMoveDTOKinds(t *testing.T) {
	tests := []struct {
		dto  MoveDTO
		move core.Move
	}{
		{MoveDTO{Kind: "edge", Edge: 4}, core.EdgeMove(4)},
		{MoveDTO{Kind: "portal", Source: 1, Target: 6}, core.PortalMove(1, 6)},
		{MoveDTO{Kind: "steal"}, core.StealMove()},
	}
	for _, tc := range tests {
		m, err := moveFromDTO(tc.dto)
		require.NoError(t, err)
		if m != tc.move {
			t.Errorf("moveFromDTO(%+v) = %s, expected %s", tc.dto, m, tc.move)
		}
		require.Equal(t, tc.dto, moveToDTO(m))
	}

	_, err := moveFromDTO(MoveDTO{Kind: "teleport"})
	require.Error(t, err)
}
