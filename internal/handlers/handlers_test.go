package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapp "github.com/14kear/online_voting/polls-service/internal/app/http"
	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/fanout"
	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/14kear/online_voting/polls-service/internal/lib/jwt"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/14kear/online_voting/polls-service/internal/storage/memory"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "http://localhost:8080"

type ticket struct {
	Poll        entity.Poll `json:"poll"`
	AccessToken string      `json:"accessToken"`
}

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServerWithOrigins(t, []string{origin})
}

func newServerWithOrigins(t *testing.T, origins []string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := fanout.NewHub(log)
	svc := polls.NewPolls(log, memory.New(), hub, jwt.NewIssuer("secret", time.Hour), time.Hour)

	app := httpapp.NewApp(
		log,
		0,
		origins,
		handlers.NewPollsHandler(svc),
		handlers.NewGateway(log, svc, hub, origins, time.Second, 8),
		middleware.NewAuthMiddleware(svc).Middleware(),
	)

	srv := httptest.NewServer(app.Engine())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createPoll(t *testing.T, srv *httptest.Server, votes int) ticket {
	t.Helper()

	resp := do(t, srv, http.MethodPost, "/api/polls", "", gin.H{
		"topic":         gofakeit.Word(),
		"votesPerVoter": votes,
		"name":          gofakeit.FirstName(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[ticket](t, resp)
}

func joinPoll(t *testing.T, srv *httptest.Server, pollID string) ticket {
	t.Helper()

	resp := do(t, srv, http.MethodPost, "/api/polls/join", "", gin.H{"pollID": pollID, "name": gofakeit.FirstName()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[ticket](t, resp)
}

func dial(t *testing.T, srv *httptest.Server, pollID, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/polls/" + pollID + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e event
	require.NoError(t, conn.ReadJSON(&e))
	return e
}

func nextPoll(t *testing.T, conn *websocket.Conn) entity.Poll {
	t.Helper()

	e := next(t, conn)
	require.Equal(t, fanout.EventPollUpdated, e.Type)

	var poll entity.Poll
	require.NoError(t, json.Unmarshal(e.Payload, &poll))
	return poll
}

func emit(t *testing.T, conn *websocket.Conn, name string, data any) {
	t.Helper()

	msg := gin.H{"event": name}
	if data != nil {
		msg["data"] = data
	}
	require.NoError(t, conn.WriteJSON(msg))
}

func TestPing(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreatePoll_HTTP(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"ok", gin.H{"topic": "lunch", "votesPerVoter": 3, "name": "ann"}, http.StatusCreated},
		{"missing fields", gin.H{"topic": "lunch"}, http.StatusBadRequest},
		{"too many votes", gin.H{"topic": "lunch", "votesPerVoter": 9, "name": "ann"}, http.StatusBadRequest},
		{"topic too long", gin.H{"topic": strings.Repeat("a", 101), "votesPerVoter": 1, "name": "ann"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, "/api/polls", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestJoinAndGetPoll_HTTP(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 2)

	resp := do(t, srv, http.MethodPost, "/api/polls/join", "", gin.H{"pollID": "ZZZZZZ", "name": "bob"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "poll ended", decodeBody[gin.H](t, resp)["error"])

	bob := joinPoll(t, srv, admin.Poll.ID)
	assert.Equal(t, admin.Poll.ID, bob.Poll.ID)
	assert.NotEqual(t, admin.AccessToken, bob.AccessToken)

	resp = do(t, srv, http.MethodGet, "/api/polls/"+admin.Poll.ID, bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, admin.Poll.Topic, decodeBody[entity.Poll](t, resp).Topic)

	resp = do(t, srv, http.MethodGet, "/api/polls/"+admin.Poll.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other := createPoll(t, srv, 1)
	resp = do(t, srv, http.MethodGet, "/api/polls/"+other.Poll.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRejoin_HTTP(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 2)

	resp := do(t, srv, http.MethodPost, "/api/polls/rejoin", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	poll := decodeBody[entity.Poll](t, resp)
	assert.True(t, poll.HasParticipant(poll.AdminID))

	resp = do(t, srv, http.MethodPost, "/api/polls/rejoin", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/polls/rejoin", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateway_Flow(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 1)
	pollID := admin.Poll.ID

	adminConn := dial(t, srv, pollID, admin.AccessToken)
	poll := nextPoll(t, adminConn)
	assert.True(t, poll.HasParticipant(poll.AdminID))

	emit(t, adminConn, "nominate", gin.H{"text": "pizza"})
	poll = nextPoll(t, adminConn)
	require.Len(t, poll.Nominations, 1)

	bob := joinPoll(t, srv, pollID)
	bobConn := dial(t, srv, pollID, bob.AccessToken)

	poll = nextPoll(t, adminConn)
	assert.Len(t, poll.Participants, 2)
	assert.Len(t, nextPoll(t, bobConn).Participants, 2)

	emit(t, bobConn, "start_vote", nil)
	e := next(t, bobConn)
	require.Equal(t, fanout.EventException, e.Type)
	var exc handlers.Exception
	require.NoError(t, json.Unmarshal(e.Payload, &exc))
	assert.Equal(t, handlers.KindForbidden, exc.Kind)

	emit(t, bobConn, "no_such_event", nil)
	e = next(t, bobConn)
	require.Equal(t, fanout.EventException, e.Type)

	emit(t, adminConn, "start_vote", nil)
	poll = nextPoll(t, adminConn)
	assert.True(t, poll.IsStarted)
	nextPoll(t, bobConn)

	var pizza string
	for id := range poll.Nominations {
		pizza = id
	}

	emit(t, bobConn, "submit_rankings", gin.H{"rankings": []string{pizza}})
	nextPoll(t, adminConn)
	nextPoll(t, bobConn)

	emit(t, adminConn, "close_poll", nil)
	poll = nextPoll(t, adminConn)
	require.Len(t, poll.Results, 1)
	assert.Equal(t, pizza, poll.Results[0].Winner)
	assert.Equal(t, entity.PollStateClosed, poll.State())
	nextPoll(t, bobConn)
}

func TestGateway_CancelTearsDownRoom(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 1)
	pollID := admin.Poll.ID

	adminConn := dial(t, srv, pollID, admin.AccessToken)
	nextPoll(t, adminConn)

	bob := joinPoll(t, srv, pollID)
	bobConn := dial(t, srv, pollID, bob.AccessToken)
	nextPoll(t, adminConn)
	nextPoll(t, bobConn)

	emit(t, adminConn, "cancel_poll", nil)

	for _, conn := range []*websocket.Conn{adminConn, bobConn} {
		assert.Equal(t, fanout.EventPollCancelled, next(t, conn).Type)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
	}

	resp := do(t, srv, http.MethodGet, "/api/polls/"+pollID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateway_DisconnectReleasesSeatWhileNominating(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 1)
	pollID := admin.Poll.ID

	adminConn := dial(t, srv, pollID, admin.AccessToken)
	nextPoll(t, adminConn)

	bob := joinPoll(t, srv, pollID)
	bobConn := dial(t, srv, pollID, bob.AccessToken)
	assert.Len(t, nextPoll(t, adminConn).Participants, 2)
	nextPoll(t, bobConn)

	require.NoError(t, bobConn.Close())

	poll := nextPoll(t, adminConn)
	assert.Len(t, poll.Participants, 1)
	assert.True(t, poll.HasParticipant(poll.AdminID))
}

func TestGateway_RejectsForeignPoll(t *testing.T) {
	srv := newServer(t)
	first := createPoll(t, srv, 1)
	second := createPoll(t, srv, 1)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/polls/" + second.Poll.ID + "/ws?token=" + first.AccessToken
	_, resp, err := websocket.DefaultDialer.DialContext(context.Background(), url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateway_RejectsLateJoiner(t *testing.T) {
	srv := newServer(t)
	admin := createPoll(t, srv, 1)
	pollID := admin.Poll.ID

	bob := joinPoll(t, srv, pollID)

	adminConn := dial(t, srv, pollID, admin.AccessToken)
	nextPoll(t, adminConn)
	emit(t, adminConn, "start_vote", nil)
	nextPoll(t, adminConn)

	bobConn := dial(t, srv, pollID, bob.AccessToken)
	e := next(t, bobConn)
	require.Equal(t, fanout.EventException, e.Type)

	var exc handlers.Exception
	require.NoError(t, json.Unmarshal(e.Payload, &exc))
	assert.Equal(t, handlers.KindStateConflict, exc.Kind)
}

func TestGateway_OriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		ok      bool
	}{
		{"listed origin", []string{origin}, origin, true},
		{"unlisted origin", []string{origin}, "https://polls.example.com", false},
		{"no list allows any origin", nil, "https://polls.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServerWithOrigins(t, tt.origins)
			admin := createPoll(t, srv, 1)

			url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/polls/" + admin.Poll.ID + "/ws?token=" + admin.AccessToken
			header := http.Header{"Origin": []string{tt.origin}}

			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if !tt.ok {
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				return
			}

			require.NoError(t, err)
			defer conn.Close()
			assert.True(t, nextPoll(t, conn).HasParticipant(admin.Poll.AdminID))
		})
	}
}
