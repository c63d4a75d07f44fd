package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/config"
	"github.com/mauv0809/matchday/internal/database"
	"github.com/mauv0809/matchday/internal/http/handlers"
	"github.com/mauv0809/matchday/internal/location"
	"github.com/mauv0809/matchday/internal/metrics"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
	"github.com/mauv0809/matchday/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	testExchangeSecret     = "exchange-secret"
	testSlackSigningSecret = "test-signing-secret"
)

// keepOrder leaves players in join order so team assignment is predictable.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

func (keepOrder) Intn(int) int { return 0 }

type testServer struct {
	*Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	ps := pubsub.NewMock()
	n := notifier.NewMock()
	players := player.New(db)
	rooms := room.New(db, ps, metricsSvc, room.WithRand(keepOrder{}))
	dir := location.New([]string{"Арбат", "Стадион Лужники", "Сокольники"})
	cfg := config.Config{
		Auth:  config.AuthConfig{JWTSecret: "jwt-secret", ExchangeSecret: testExchangeSecret, TokenTTL: time.Hour},
		Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret},
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	expirer := scheduler.NewExpirer(rooms, time.Hour)

	server := NewServer(db, players, rooms, dir, issuer, n, ps, expirer, metrics.NewMetricsHandler(reg), cfg)
	return &testServer{Server: server, notifier: n, pubsub: ps}
}

func (s *testServer) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

type session struct {
	token string
	user  model.User
}

// login exchanges a Telegram identity for a bearer token.
func (s *testServer) login(t *testing.T, telegramID int64, username string) session {
	t.Helper()
	body, err := json.Marshal(map[string]any{"telegramId": telegramID, "username": username})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set(handlers.ExchangeSecretHeader, testExchangeSecret)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, rr, &resp)
	return session{token: resp.Token, user: resp.User}
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

type roomJSON struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Status   model.RoomStatus `json:"status"`
	Creator  *model.User      `json:"creator"`
	Players  []model.User     `json:"players"`
	TeamA    []model.User     `json:"teamA"`
	TeamB    []model.User     `json:"teamB"`
	CaptainA *model.User      `json:"captainA"`
	CaptainB *model.User      `json:"captainB"`
	ScoreA   *int             `json:"scoreA"`
	ScoreB   *int             `json:"scoreB"`
}

func (s *testServer) createRoom(t *testing.T, creator session, name string) roomJSON {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/game-rooms", creator.token, map[string]any{
		"name": name, "maxPlayers": 4, "location": "Арбат", "timeRange": "evening",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rm roomJSON
	decode(t, rr, &rm)
	return rm
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestTokenHandler(t *testing.T) {
	s := setupTestServer(t)

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"telegramId":1,"username":"a"}`))
		req.Header.Set(handlers.ExchangeSecretHeader, "nope")
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"telegramId":1,"username":"  "}`))
		req.Header.Set(handlers.ExchangeSecretHeader, testExchangeSecret)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("registers once", func(t *testing.T) {
		first := s.login(t, 42, "alex")
		second := s.login(t, 42, "alex")
		assert.Equal(t, first.user.ID, second.user.ID)
		assert.Equal(t, 0, first.user.Rating)

		rr := s.do(t, http.MethodGet, "/api/users/me", second.token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var me model.User
		decode(t, rr, &me)
		assert.Equal(t, "alex", me.Username)
	})
}

func TestAPIRequiresToken(t *testing.T) {
	s := setupTestServer(t)

	for _, target := range []string{"/api/users/me", "/api/game-rooms", "/api/leaderboard"} {
		rr := s.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
	}
	rr := s.do(t, http.MethodGet, "/api/locations", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestThemePreference(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")

	rr := s.do(t, http.MethodPost, "/api/users/theme-preference", alex.token, map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var me model.User
	decode(t, rr, &me)
	assert.Equal(t, model.ThemeDark, me.Theme)

	rr = s.do(t, http.MethodPost, "/api/users/theme-preference", alex.token, map[string]string{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoomLifecycle(t *testing.T) {
	s := setupTestServer(t)
	sessions := []session{
		s.login(t, 1, "alex"),
		s.login(t, 2, "maria"),
		s.login(t, 3, "john"),
		s.login(t, 4, "sarah"),
	}
	creator := sessions[0]
	rm := s.createRoom(t, creator, "Friday five")
	assert.Equal(t, model.StatusWaiting, rm.Status)
	require.NotNil(t, rm.Creator)
	assert.Equal(t, "alex", rm.Creator.Username)

	for i, sess := range sessions[1:] {
		rr := s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/join", sess.token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp struct {
			Room   roomJSON `json:"room"`
			IsFull bool     `json:"isFull"`
		}
		decode(t, rr, &resp)
		assert.Equal(t, i == 2, resp.IsFull)
	}

	rr := s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/start-team-selection", sessions[1].token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/start-team-selection", creator.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &rm)
	assert.Equal(t, model.StatusTeamSelection, rm.Status)
	require.NotNil(t, rm.CaptainA)
	require.NotNil(t, rm.CaptainB)
	assert.Equal(t, "alex", rm.CaptainA.Username)
	assert.Equal(t, "john", rm.CaptainB.Username)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/start-game", creator.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/submit-score", sessions[1].token, map[string]string{"score": "3:2"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/submit-score", creator.token, map[string]string{"score": "3-1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/end-game", sessions[2].token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/submit-score", creator.token, map[string]string{"score": "3:2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var submit struct {
		Room    roomJSON     `json:"room"`
		Outcome room.Outcome `json:"outcome"`
	}
	decode(t, rr, &submit)
	assert.Equal(t, room.OutcomeAwaitingOpponent, submit.Outcome)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/submit-score", sessions[2].token, map[string]string{"score": "3:2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &submit)
	assert.Equal(t, room.OutcomeAgreed, submit.Outcome)
	assert.Equal(t, model.StatusCompleted, submit.Room.Status)
	require.NotNil(t, submit.Room.ScoreA)
	assert.Equal(t, 3, *submit.Room.ScoreA)

	rr = s.do(t, http.MethodGet, "/api/users/me", creator.token, nil)
	var me model.User
	decode(t, rr, &me)
	assert.Equal(t, 50, me.Rating)
	assert.Equal(t, 1, me.GamesWon)

	rr = s.do(t, http.MethodGet, "/api/users/me/history", creator.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history player.HistoryPage
	decode(t, rr, &history)
	require.Len(t, history.History, 1)
	assert.Equal(t, model.ResultWin, history.History[0].Result)

	rr = s.do(t, http.MethodGet, "/api/leaderboard?per_page=2", creator.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var board player.LeaderboardPage
	decode(t, rr, &board)
	require.Len(t, board.Users, 2)
	assert.Equal(t, 1, board.Users[0].Rank)
	assert.Equal(t, 50, board.Users[0].Rating)
	assert.Equal(t, 4, board.Pagination.Total)
	assert.True(t, board.Pagination.HasNext)

	calls := s.pubsub.Calls(pubsub.EventRoomCompleted)
	require.Len(t, calls, 1)
	event, ok := calls[0].Data.(room.CompletedEvent)
	require.True(t, ok)
	assert.Equal(t, rm.ID, event.RoomID)
	assert.Equal(t, room.OutcomeAgreed, event.Reason)
}

func TestJoinActiveElsewhere(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")
	maria := s.login(t, 2, "maria")
	first := s.createRoom(t, alex, "First")
	second := s.createRoom(t, maria, "Second")

	rr := s.do(t, http.MethodPost, "/api/game-rooms/"+second.ID+"/join", alex.token, nil)

	require.Equal(t, http.StatusConflict, rr.Code)
	var resp struct {
		Error       string     `json:"error"`
		ActiveRooms []roomJSON `json:"activeRooms"`
	}
	decode(t, rr, &resp)
	require.Len(t, resp.ActiveRooms, 1)
	assert.Equal(t, first.ID, resp.ActiveRooms[0].ID)

	rr = s.do(t, http.MethodGet, "/api/user-active-rooms", alex.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var active struct {
		User        model.User `json:"user"`
		ActiveRooms []roomJSON `json:"activeRooms"`
	}
	decode(t, rr, &active)
	assert.Equal(t, alex.user.ID, active.User.ID)
	require.Len(t, active.ActiveRooms, 1)
	assert.Equal(t, "First", active.ActiveRooms[0].Name)
}

func TestListAndDeleteRooms(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")
	maria := s.login(t, 2, "maria")
	rm := s.createRoom(t, alex, "Вечерний футбол")
	s.createRoom(t, maria, "Morning kick")

	rr := s.do(t, http.MethodGet, "/api/game-rooms?name=ВЕЧЕР", maria.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var rooms []roomJSON
	decode(t, rr, &rooms)
	require.Len(t, rooms, 1)
	assert.Equal(t, rm.ID, rooms[0].ID)

	rr = s.do(t, http.MethodDelete, "/api/game-rooms/"+rm.ID, maria.token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/game-rooms/"+rm.ID, alex.token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/game-rooms/"+rm.ID, alex.token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaveRoom(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")
	maria := s.login(t, 2, "maria")
	rm := s.createRoom(t, alex, "Small")
	rr := s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/join", maria.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/leave", alex.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		Room         *roomJSON `json:"room"`
		Deleted      bool      `json:"deleted"`
		NewCreatorID string    `json:"newCreatorId"`
	}
	decode(t, rr, &resp)
	assert.False(t, resp.Deleted)
	assert.Equal(t, maria.user.ID, resp.NewCreatorID)
	require.NotNil(t, resp.Room)
	assert.Equal(t, "maria", resp.Room.Creator.Username)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/leave", maria.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp.Room = nil
	decode(t, rr, &resp)
	assert.True(t, resp.Deleted)
	assert.Nil(t, resp.Room)
}

func TestReportPlayer(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")
	maria := s.login(t, 2, "maria")
	rm := s.createRoom(t, alex, "Rough game")
	s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/join", maria.token, nil)

	rr := s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/report-player", alex.token, map[string]string{
		"reportedUserId": maria.user.ID, "reason": "no-show",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, s.pubsub.Calls(pubsub.EventPlayerReported), 1)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/report-player", alex.token, map[string]string{
		"reportedUserId": alex.user.ID, "reason": "self",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/game-rooms/"+rm.ID+"/report-player", alex.token, map[string]string{
		"reportedUserId": maria.user.ID, "reason": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLocations(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/locations/search?query=luzh", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Locations []string `json:"locations"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, []string{"Стадион Лужники"}, resp.Locations)
}

func pushBody(t *testing.T, event any) io.Reader {
	t.Helper()
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"subscription": "projects/test/subscriptions/test",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data)},
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestPubSubHandlers(t *testing.T) {
	s := setupTestServer(t)

	t.Run("room completed", func(t *testing.T) {
		event := room.CompletedEvent{RoomID: "room-1", RoomName: "Friday", ScoreA: 2, ScoreB: 1, Reason: room.OutcomeAgreed}
		req := httptest.NewRequest(http.MethodPost, "/pubsub/room-completed?dry_run=true", pushBody(t, event))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		results := s.notifier.MatchResults()
		require.Len(t, results, 1)
		assert.Equal(t, "Friday", results[0].RoomName)
		assert.Equal(t, 2, results[0].ScoreA)
	})

	t.Run("player reported", func(t *testing.T) {
		event := room.ReportedEvent{ComplaintID: 7, RoomID: "room-1", Reason: "rude"}
		req := httptest.NewRequest(http.MethodPost, "/pubsub/player-reported", pushBody(t, event))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		complaints := s.notifier.Complaints()
		require.Len(t, complaints, 1)
		assert.Equal(t, "rude", complaints[0].Reason)
	})

	t.Run("notifier failure asks for redelivery", func(t *testing.T) {
		s.notifier.SendScoreMismatchFunc = func(room.MismatchEvent, bool) error { return assert.AnError }
		req := httptest.NewRequest(http.MethodPost, "/pubsub/score-mismatch", pushBody(t, room.MismatchEvent{RoomID: "room-1", Attempt: 1}))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("invalid base64", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pubsub/room-completed", strings.NewReader(`{"message":{"data":"%%%"}}`))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestExpireSubmissionsHandler(t *testing.T) {
	s := setupTestServer(t)

	rr := s.do(t, http.MethodPost, "/tasks/expire-submissions", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Expired []string `json:"expired"`
	}
	decode(t, rr, &resp)
	assert.Empty(t, resp.Expired)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")
	s.createRoom(t, alex, "Counted")

	rr := s.do(t, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rooms_created_total 1")
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req := httptest.NewRequest(http.MethodPost, targetURL, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(fmt.Sprintf("v0:%d:%s", timestamp, bodyBytes)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestLeaderboardCommandHandler(t *testing.T) {
	s := setupTestServer(t)
	s.login(t, 1, "alex")
	s.login(t, 2, "maria")

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{"command": {"/leaderboard"}}, testSlackSigningSecret)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `"formatted_leaderboard"`, rr.Body.String())
	assert.Len(t, s.notifier.LastLeaderboard, 2)
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	s := setupTestServer(t)
	alex := s.login(t, 1, "alex")

	t.Run("found", func(t *testing.T) {
		form := url.Values{"command": {"/player-stats"}, "text": {"@Alex"}, "user_name": {"moderator"}}
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `"formatted_player_stats"`, rr.Body.String())
		require.NotNil(t, s.notifier.LastPlayerStats)
		assert.Equal(t, alex.user.ID, s.notifier.LastPlayerStats.ID)
	})

	t.Run("not found", func(t *testing.T) {
		form := url.Values{"command": {"/player-stats"}, "text": {"ghost"}}
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ghost", s.notifier.LastPlayerNotFound)
	})

	t.Run("missing name", func(t *testing.T) {
		form := url.Values{"command": {"/player-stats"}}
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		form := url.Values{"command": {"/player-stats"}, "text": {"alex"}}
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/player-stats", form, "wrong-secret"))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
