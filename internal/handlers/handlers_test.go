// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/nuo/internal/auth"
	"github.com/cardtable/nuo/internal/deck"
	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/events"
	"github.com/cardtable/nuo/internal/nuo"
)

func TestMain(m *testing.M) {
	if err := auth.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer wires the full stack the way cmd/server does, with seeded
// decks and no Redis.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	broadcaster := events.NewBroadcaster()
	factory := func(emit func(string)) *deck.Deck {
		return deck.NewStandardDeck(rand.New(rand.NewSource(11)), emit)
	}
	registry := engine.NewRegistry()
	registry.MustRegister(nuo.NewDefinitionWithDeck(broadcaster, factory))

	dispatcher := engine.NewDispatcher(registry, logger)
	srv := NewServer(logger, dispatcher, broadcaster)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/game", srv.CreateGameHandler)
	mux.HandleFunc("/api/join/", srv.JoinGameHandler)
	mux.HandleFunc("/api/player/name", srv.PlayerNameHandler)
	mux.HandleFunc("/api/"+nuo.GameType+"/", srv.GameHandler)
	return srv, mux
}

// testClient replays the session cookie across requests, like a browser.
type testClient struct {
	t      *testing.T
	mux    http.Handler
	cookie string
}

func (c *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.cookie != "" {
		req.Header.Set("Cookie", "auth_token="+c.cookie)
	}
	rec := httptest.NewRecorder()
	c.mux.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "auth_token" {
			c.cookie = ck.Value
		}
	}
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

type createdGame struct {
	ID        uuid.UUID `json:"id"`
	ShortCode string    `json:"shortCode"`
	Path      string    `json:"path"`
}

// wireView mirrors the JSON shape of nuo.PlayerView for assertions.
type wireView struct {
	Self struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Ready bool      `json:"ready"`
	} `json:"self"`
	ShortCode        string `json:"shortCode"`
	AvailableActions []struct {
		Name              string              `json:"name"`
		PossibleArguments []map[string]string `json:"possibleArguments"`
	} `json:"availableActions"`
	Players []struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Ready bool      `json:"ready"`
	} `json:"players"`
	Phase   string `json:"phase"`
	NuoSelf *struct {
		Hand  []string `json:"hand"`
		Drawn string   `json:"drawn"`
	} `json:"nuoSelf"`
}

type wireResponse struct {
	Path       string   `json:"path"`
	PlayerView wireView `json:"playerView"`
}

type wireError struct {
	Error struct {
		Kind   string `json:"kind"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func createGame(t *testing.T, c *testClient) createdGame {
	t.Helper()
	rec := c.do(http.MethodPost, "/api/game", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var game createdGame
	decodeJSON(t, rec, &game)
	require.NotEqual(t, uuid.Nil, game.ID)
	require.Len(t, game.ShortCode, 4)
	require.Equal(t, fmt.Sprintf("/api/%s/%s", nuo.GameType, game.ID), game.Path)
	return game
}

func action(name string, args map[string]string) map[string]interface{} {
	body := map[string]interface{}{"name": name}
	if args != nil {
		body["args"] = args
	}
	return body
}

func TestCreateJoinReadyFlow(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	bob := &testClient{t: t, mux: mux}

	game := createGame(t, ada)

	// Ada names herself before joining; the name travels with the join.
	rec := ada.do(http.MethodPost, "/api/player/name", "Ada")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var joined wireResponse
	decodeJSON(t, rec, &joined)
	assert.Equal(t, game.Path, joined.Path)
	assert.Equal(t, "Ada", joined.PlayerView.Self.Name)
	assert.Equal(t, "waiting", joined.PlayerView.Phase)

	// Bob joins without a name and gets the placeholder.
	rec = bob.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobJoined wireResponse
	decodeJSON(t, rec, &bobJoined)
	assert.Equal(t, "Unknown", bobJoined.PlayerView.Self.Name)
	assert.Len(t, bobJoined.PlayerView.Players, 2)

	// A late rename fans out to the seated game.
	rec = bob.do(http.MethodPost, "/api/player/name", "Bob")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ada.do(http.MethodGet, game.Path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var polled wireResponse
	decodeJSON(t, rec, &polled)
	names := make(map[string]bool)
	for _, p := range polled.PlayerView.Players {
		names[p.Name] = true
	}
	assert.True(t, names["Ada"] && names["Bob"], "players: %v", polled.PlayerView.Players)

	// Both ready up; the second ready starts the round.
	rec = ada.do(http.MethodPost, game.Path, action(nuo.ActionPlayerReady, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = bob.do(http.MethodPost, game.Path, action(nuo.ActionPlayerReady, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started wireResponse
	decodeJSON(t, rec, &started)
	assert.Equal(t, "inTurn", started.PlayerView.Phase)
	require.NotNil(t, started.PlayerView.NuoSelf)
	assert.Len(t, started.PlayerView.NuoSelf.Hand, 7)
}

func TestJoinIsIdempotentForSeatedPlayer(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)

	rec := ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view wireResponse
	decodeJSON(t, rec, &view)
	assert.Len(t, view.PlayerView.Players, 1, "rejoining must not add a second seat")
}

func TestJoinLowercaseShortCode(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)

	rec := ada.do(http.MethodPut, "/api/join/"+toLower(game.ShortCode), nil)
	assert.Equal(t, http.StatusOK, rec.Code, "short codes are case-insensitive on join")
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func TestErrorStatusMapping(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)
	rec := ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		kind   string
	}{
		{
			name:   "unknown game id",
			method: http.MethodGet,
			path:   "/api/" + nuo.GameType + "/" + uuid.NewString(),
			status: http.StatusNotFound,
			kind:   "no_such_game",
		},
		{
			name:   "unknown join code",
			method: http.MethodPut,
			path:   "/api/join/QQQQ",
			status: http.StatusNotFound,
			kind:   "no_such_game",
		},
		{
			name:   "unknown action",
			method: http.MethodPost,
			path:   game.Path,
			body:   action("teleport", nil),
			status: http.StatusNotFound,
			kind:   "no_such_action",
		},
		{
			name:   "wrong phase",
			method: http.MethodPost,
			path:   game.Path,
			body:   action(nuo.ActionPlayCard, map[string]string{"card": "r7"}),
			status: http.StatusConflict,
			kind:   "wrong_phase",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ada.do(tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			var body wireError
			decodeJSON(t, rec, &body)
			assert.Equal(t, tc.kind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Reason)
		})
	}
}

func TestBadRequests(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)

	rec := ada.do(http.MethodPost, "/api/player/name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty name rejected")

	rec = ada.do(http.MethodPost, game.Path, map[string]interface{}{"args": map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "action without a name rejected")

	rec = ada.do(http.MethodGet, "/api/"+nuo.GameType+"/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ada.do(http.MethodDelete, game.Path, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = ada.do(http.MethodGet, "/api/game", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSessionCookieIsStable(t *testing.T) {
	_, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)

	rec := ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first wireResponse
	decodeJSON(t, rec, &first)
	firstID := first.PlayerView.Self.ID

	rec = ada.do(http.MethodGet, game.Path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var second wireResponse
	decodeJSON(t, rec, &second)
	assert.Equal(t, firstID, second.PlayerView.Self.ID, "cookie must resolve to the same player")
}

func TestEventFeedReceivesNotifications(t *testing.T) {
	srv, mux := newTestServer(t)
	ada := &testClient{t: t, mux: mux}
	game := createGame(t, ada)

	ch, cancel := srv.Events.Subscribe(game.ID)
	defer cancel()

	rec := ada.do(http.MethodPost, "/api/player/name", "Ada")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ada.do(http.MethodPut, "/api/join/"+game.ShortCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case msg := <-ch:
		assert.Equal(t, "Ada joined the game.", msg)
	default:
		t.Fatal("expected a join notification on the event feed")
	}
}
