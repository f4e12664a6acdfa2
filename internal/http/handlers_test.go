package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcase/Wingspan/internal/config"
	"github.com/stcase/Wingspan/internal/database"
	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
	"github.com/stcase/Wingspan/internal/processor"
	"github.com/stcase/Wingspan/internal/stats"
	"github.com/stcase/Wingspan/internal/tracker"
	"github.com/stcase/Wingspan/internal/wingspan"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, source wingspan.Client, notif notifier.Notifier, slackSigningSecret string) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := tracker.New(db)
	statsSvc := stats.New(store)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	proc := processor.New(store, source, notif, metricsSvc)

	server := NewServer(store, statsSvc, proc, source, notif, metricsSvc, metricsHandler, cfg)

	return server, dbTeardown
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := strings.NewReader(form.Encode())
	req, err := http.NewRequest("POST", targetURL, body)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	bodyBytes, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	// Reset the request body for the actual handler after reading for signature calculation.
	req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))

	req.Header.Set("X-Slack-Signature", "v0="+signature)

	return req
}

func commandForm(text string) url.Values {
	return url.Values{
		"command":    {"/add"},
		"text":       {text},
		"channel_id": {"C12345"},
		"user_id":    {"U1"},
		"user_name":  {"tester"},
	}
}

func decodeSlackMsg(t *testing.T, rr *httptest.ResponseRecorder) slack.Msg {
	t.Helper()
	var msg slack.Msg
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	return msg
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), "")
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestAddCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	msg := decodeSlackMsg(t, rr)
	assert.Equal(t, "Now monitoring match1", msg.Text)
	assert.Equal(t, slack.ResponseTypeInChannel, msg.ResponseType)

	// The same match again is a visible no-op.
	req = createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Already monitoring match1", decodeSlackMsg(t, rr).Text)
}

func TestAddCommandHandler_UnknownMatch(t *testing.T) {
	source := wingspan.NewMockClient()
	source.GetMatchFunc = func(matchID string) (wingspan.Match, error) {
		return wingspan.Match{}, wingspan.ErrMatchNotFound
	}
	server, teardown := setupTestServer(t, source, notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/add", commandForm("bogus"), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	msg := decodeSlackMsg(t, rr)
	assert.Equal(t, "Exception while adding match bogus, maybe an invalid ID? - check the logs", msg.Text)

	// Nothing was monitored.
	monitors, err := server.Store.AllMonitored()
	require.NoError(t, err)
	assert.Empty(t, monitors)
}

func TestSlackCommand_BadSignature(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), "wrong-secret")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRemoveCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/remove", commandForm("match1"), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "Not monitoring match1", decodeSlackMsg(t, rr).Text)

	req = createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), testSlackSigningSecret)
	server.Router.ServeHTTP(httptest.NewRecorder(), req)

	req = createSlackCommandRequest(t, "/slack/command/remove", commandForm("match1"), testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "No longer monitoring match1", decodeSlackMsg(t, rr).Text)
}

func TestSubscribeCommandHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/subscribe", commandForm("alice"), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "Now notifying tester for alice", decodeSlackMsg(t, rr).Text)

	req = createSlackCommandRequest(t, "/slack/command/subscribe", commandForm("alice"), testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "Already subscribed to alice", decodeSlackMsg(t, rr).Text)

	req = createSlackCommandRequest(t, "/slack/command/unsubscribe", commandForm("alice"), testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "No longer notifying for alice", decodeSlackMsg(t, rr).Text)
}

func TestTurnCommandHandler(t *testing.T) {
	source := wingspan.NewMockClient()
	source.GetMatchFunc = func(matchID string) (wingspan.Match, error) {
		return wingspan.Match{
			MatchID:     matchID,
			State:       wingspan.StateInProgress,
			TurnTimeout: &wingspan.Timeout{SecondsRemaining: 48 * 3600},
			Players:     []wingspan.Player{{ChilliConnectID: "p1", UserName: "alice"}},
			StateData:   &wingspan.StateData{CurrentPlayerID: "p1"},
		}, nil
	}
	notif := notifier.NewMock()
	server, teardown := setupTestServer(t, source, notif, testSlackSigningSecret)
	defer teardown()

	// Without monitors the command reports the empty channel.
	req := createSlackCommandRequest(t, "/slack/command/turn", commandForm(""), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "No matches found for this channel", decodeSlackMsg(t, rr).Text)

	req = createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), testSlackSigningSecret)
	server.Router.ServeHTTP(httptest.NewRecorder(), req)

	req = createSlackCommandRequest(t, "/slack/command/turn", commandForm(""), testSlackSigningSecret)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "Checked 1 matches", decodeSlackMsg(t, rr).Text)

	// The status itself goes out through the notifier.
	require.Len(t, notif.SendCalls, 1)
	assert.Equal(t, "It's alice's turn with 48.00 hours remaining in match match1", notif.SendCalls[0].Text)
}

func TestStatsCommandHandler_EmptyChannel(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/stats", commandForm(""), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	msg := decodeSlackMsg(t, rr)
	assert.Contains(t, msg.Text, "Global channel data:\n0 matches monitored since None\n")
	assert.Contains(t, msg.Text, "Fastest average turn time (hours): None\n")
	assert.Contains(t, msg.Text, "Highest score:                     None\n")
}

func TestStatsCommandHandler_ForMatch(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/stats", commandForm("match1"), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	msg := decodeSlackMsg(t, rr)
	assert.True(t, strings.HasPrefix(msg.Text, "Stats for match1 since None\n"), msg.Text)
}

func TestGamesCommandHandler(t *testing.T) {
	source := wingspan.NewMockClient()
	source.GetMatchesFunc = func() ([]wingspan.Match, error) {
		return []wingspan.Match{
			{MatchID: "match1", State: wingspan.StateInProgress},
			{MatchID: "match2", State: wingspan.StateWaiting},
		}, nil
	}
	server, teardown := setupTestServer(t, source, notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/games", commandForm(""), testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	msg := decodeSlackMsg(t, rr)
	assert.Equal(t, "Active games:\nmatch1: IN_PROGRESS\nmatch2: WAITING\n", msg.Text)
}

func TestCheckTurnsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), "")
	defer teardown()

	req, err := http.NewRequest("POST", "/check?dry_run=true", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Turn check completed.\n", rr.Body.String())
}

func TestListMonitorsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), testSlackSigningSecret)
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/add", commandForm("match1"), testSlackSigningSecret)
	server.Router.ServeHTTP(httptest.NewRecorder(), req)

	getReq, err := http.NewRequest("GET", "/monitors", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, getReq)

	assert.Equal(t, http.StatusOK, rr.Code)
	var monitors map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &monitors))
	assert.Equal(t, map[string][]string{"1": {"match1"}}, monitors)
}

func TestListMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t, wingspan.NewMockClient(), notifier.NewMock(), "")
	defer teardown()

	match := &wingspan.Match{MatchID: "match1", State: wingspan.StateInProgress}
	require.NoError(t, server.Store.UpsertSnapshot(match))

	req, err := http.NewRequest("GET", "/matches", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var matches []wingspan.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "match1", matches[0].MatchID)
}
