package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"go.uber.org/zap"
)

type sessionState int

const (
	stateNew sessionState = iota
	stateAuthenticated
	stateClosed
	stateFailed
)

// controllerSession is one login/command/logout cycle. Lifecycle:
// New -> Authenticated -> Closed, with Failed terminal from any state.
// The caller must invoke Close on every exit path.
type controllerSession struct {
	cfg    Config
	http   *http.Client
	csrf   string // UniFi OS CSRF token, captured from response headers
	state  sessionState
	once   sync.Once
	logger *zap.Logger
}

func newSession(cfg Config, logger *zap.Logger) *controllerSession {
	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &controllerSession{
		cfg: cfg,
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		state:  stateNew,
		logger: logger,
	}
}

// Authenticate logs in to the controller and captures the session cookie.
func (s *controllerSession) Authenticate(ctx context.Context) error {
	if s.state != stateNew {
		return &AuthError{Msg: "session already used"}
	}

	body := map[string]string{
		"username": s.cfg.Username,
		"password": s.cfg.Password,
	}

	resp, err := s.post(ctx, loginURL(s.cfg), body)
	if err != nil {
		s.state = stateFailed
		return err
	}
	if resp.Meta.RC != "ok" {
		s.state = stateFailed
		return &AuthError{Msg: metaMessage(resp)}
	}

	s.state = stateAuthenticated
	return nil
}

// AuthorizeDevice sends the authorize-guest command for the canonical MAC.
func (s *controllerSession) AuthorizeDevice(ctx context.Context, mac string, minutes int) error {
	if s.state != stateAuthenticated {
		return &CommandError{Cmd: "authorize-guest", Msg: "session not authenticated"}
	}
	if minutes <= 0 {
		minutes = DefaultSessionMinutes
	}

	payload := map[string]any{
		"cmd":     "authorize-guest",
		"mac":     mac,
		"minutes": minutes,
	}
	if s.cfg.UpKbps > 0 {
		payload["up"] = s.cfg.UpKbps
	}
	if s.cfg.DownKbps > 0 {
		payload["down"] = s.cfg.DownKbps
	}
	if s.cfg.QuotaMB > 0 {
		payload["bytes"] = s.cfg.QuotaMB
	}

	resp, err := s.post(ctx, commandURL(s.cfg), payload)
	if err != nil {
		s.state = stateFailed
		return err
	}
	if resp.Meta.RC != "ok" {
		s.state = stateFailed
		return &CommandError{Cmd: "authorize-guest", Msg: metaMessage(resp)}
	}
	return nil
}

// DeauthorizeDevice sends the unauthorize-guest command for the canonical MAC.
func (s *controllerSession) DeauthorizeDevice(ctx context.Context, mac string) error {
	if s.state != stateAuthenticated {
		return &CommandError{Cmd: "unauthorize-guest", Msg: "session not authenticated"}
	}

	payload := map[string]any{
		"cmd": "unauthorize-guest",
		"mac": mac,
	}

	resp, err := s.post(ctx, commandURL(s.cfg), payload)
	if err != nil {
		s.state = stateFailed
		return err
	}
	if resp.Meta.RC != "ok" {
		s.state = stateFailed
		return &CommandError{Cmd: "unauthorize-guest", Msg: metaMessage(resp)}
	}
	return nil
}

// Close releases the controller-side session cookie. It attempts the
// logout call exactly once; repeated calls are no-ops. Teardown failures
// are logged and swallowed.
func (s *controllerSession) Close(ctx context.Context) {
	s.once.Do(func() {
		s.state = stateClosed
		if _, err := s.post(ctx, logoutURL(s.cfg), nil); err != nil {
			s.logger.Warn("controller logout failed", zap.Error(err))
		}
	})
}

type apiMeta struct {
	RC  string `json:"rc"`
	Msg string `json:"msg"`
}

type apiResponse struct {
	Meta apiMeta `json:"meta"`
}

func metaMessage(resp *apiResponse) string {
	if resp.Meta.Msg != "" {
		return resp.Meta.Msg
	}
	return "unknown error"
}

// post sends a JSON request and decodes the controller envelope. A 2xx
// response without a meta block (UniFi OS auth endpoints) counts as ok.
func (s *controllerSession) post(ctx context.Context, url string, payload any) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.csrf != "" {
		req.Header.Set("X-Csrf-Token", s.csrf)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if tok := resp.Header.Get("X-Csrf-Token"); tok != "" {
		s.csrf = tok
	}

	out := &apiResponse{}
	_ = json.NewDecoder(resp.Body).Decode(out) // logout and UniFi OS auth return empty bodies

	if out.Meta.RC == "" {
		if resp.StatusCode >= 400 {
			out.Meta.RC = "error"
			out.Meta.Msg = resp.Status
		} else {
			out.Meta.RC = "ok"
		}
	}
	return out, nil
}
