package wingspan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultBaseURL = "https://connect.chilliconnect.com"
	// Public game token shipped with the Wingspan client.
	gameToken = "xCv44nsmb6bP9q8fAIJn1uy70EzyfJJH"

	// ChilliConnect error code for an expired Connect access token.
	codeTokenExpired = 1003
)

var (
	// ErrMatchNotFound indicates the match ID is unknown to the source.
	ErrMatchNotFound = errors.New("match not found")
	// ErrUnavailable indicates the source could not be reached or answered
	// with an unexpected failure.
	ErrUnavailable = errors.New("match source unavailable")
)

// APIClient is the ChilliConnect implementation of the Client interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string

	sessionTicket string

	mu          sync.Mutex
	accessToken string
}

// NewClient creates a new ChilliConnect client. The session ticket is used to
// log in again when the access token expires; with an empty ticket an expired
// token is a hard failure.
func NewClient(accessToken, sessionTicket string) *APIClient {
	return &APIClient{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		BaseURL:       defaultBaseURL,
		sessionTicket: sessionTicket,
		accessToken:   accessToken,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// GetMatch fetches a specific match by its ID.
func (c *APIClient) GetMatch(matchID string) (Match, error) {
	body, err := c.post("1.0/multiplayer/async/match/get", url.Values{"MatchID": {matchID}})
	if err != nil {
		return Match{}, err
	}

	var response struct {
		Match Match `json:"Match"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return Match{}, fmt.Errorf("failed to decode match response: %w", err)
	}
	log.Debug("Fetched match", "matchID", matchID, "state", response.Match.State)
	return response.Match, nil
}

// GetMatches lists all matches for the authenticated player.
func (c *APIClient) GetMatches() ([]Match, error) {
	body, err := c.post("1.0/multiplayer/async/match/player/get", url.Values{})
	if err != nil {
		return nil, err
	}

	var response struct {
		Matches []Match `json:"Matches"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode matches response: %w", err)
	}
	log.Debug("Fetched match list", "count", len(response.Matches))
	return response.Matches, nil
}

// post sends a form-encoded request with the Connect access token, refreshing
// the token and retrying once when the API reports it expired.
func (c *APIClient) post(path string, form url.Values) ([]byte, error) {
	status, body, err := c.doPost(path, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	if status != http.StatusOK && apiErrorCode(body) == codeTokenExpired {
		log.Info("Access token expired, generating a new one")
		if err := c.refreshAccessToken(); err != nil {
			return nil, err
		}
		status, body, err = c.doPost(path, form)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
	}

	switch {
	case status == http.StatusOK:
		return body, nil
	case status == http.StatusNotFound:
		return nil, ErrMatchNotFound
	default:
		log.Error("Received non-OK HTTP status from ChilliConnect", "status", status, "path", path, "body", string(body))
		return nil, fmt.Errorf("%w: received HTTP status %d", ErrUnavailable, status)
	}
}

func (c *APIClient) doPost(path string, form url.Values) (int, []byte, error) {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/%s", c.BaseURL, path), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Connect-Access-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// refreshAccessToken performs a fresh steam login with the configured session
// ticket and replaces the stored access token.
func (c *APIClient) refreshAccessToken() error {
	if c.sessionTicket == "" {
		return fmt.Errorf("%w: access token expired and no session ticket configured", ErrUnavailable)
	}

	form := url.Values{
		"SessionTicket": {c.sessionTicket},
		"CreatePlayer":  {"true"},
		"DeviceType":    {"DESKTOP"},
		"Platform":      {"WINDOWS"},
		"Date":          {time.Now().Format("2006-01-02T15:04:05")},
	}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/1.0/player/login/steam", c.BaseURL), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Game-Token", gameToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: login failed with HTTP status %d", ErrUnavailable, resp.StatusCode)
	}

	var login struct {
		ConnectAccessToken string `json:"ConnectAccessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("%w: failed to decode login response: %s", ErrUnavailable, err)
	}

	c.mu.Lock()
	c.accessToken = login.ConnectAccessToken
	c.mu.Unlock()
	log.Info("Refreshed ChilliConnect access token")
	return nil
}

// apiErrorCode extracts the ChilliConnect error code from a failure body,
// returning 0 when the body is not a structured error.
func apiErrorCode(body []byte) int {
	var apiErr struct {
		Code int `json:"Code"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return 0
	}
	return apiErr.Code
}
