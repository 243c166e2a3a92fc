package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

const (
	DefaultBaseURL = "http://0.0.0.0:8000"
	DefaultAppName = "rag_agent"
	DefaultUserID  = "user"
)

var ErrNoSession = errors.New("no agent session")

type Config struct {
	BaseURL string
	AppName string
	UserID  string
	// Timeout bounds session creation and the wait for response headers.
	// The event stream itself is only bounded by the caller's context.
	Timeout time.Duration
	// Streaming is forwarded to the agent as the run request's
	// streaming flag.
	Streaming bool
}

// RunRequest is the body of POST /run_sse.
type RunRequest struct {
	AppName    string         `json:"appName"`
	UserID     string         `json:"userId"`
	SessionID  string         `json:"sessionId"`
	NewMessage *genai.Content `json:"newMessage"`
	Streaming  bool           `json:"streaming"`
}

// SendRequest is one user turn.
type SendRequest struct {
	Text    string
	Context []content.Product
	Files   []chat.FileRef
}

// Client talks to an agent server over its session and run_sse endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu        sync.RWMutex
	sessionID string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if cfg.UserID == "" {
		cfg.UserID = DefaultUserID
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Timeout > 0 {
		transport.ResponseHeaderTimeout = cfg.Timeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: transport},
	}
}

func (c *Client) Config() Config {
	return c.cfg
}

// SessionID returns the current session, or "" before CreateSession.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// CreateSession registers a fresh session id with the agent and makes it
// the current one.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	id := uuid.NewString()
	url := fmt.Sprintf("%s/apps/%s/users/%s/sessions/%s", c.cfg.BaseURL, c.cfg.AppName, c.cfg.UserID, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create session: %w", statusError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()

	logger.Info("Agent session created: %s", id)
	return id, nil
}

// NewRunRequest builds the run request for the current session. The text
// part carries the selected-product context; each file becomes an inline
// data part.
func (c *Client) NewRunRequest(sr SendRequest) RunRequest {
	parts := []*genai.Part{genai.NewPartFromText(chat.ComposeText(sr.Text, sr.Context))}
	for _, f := range sr.Files {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				DisplayName: f.Name,
				Data:        f.Data,
				MIMEType:    f.MIMEType,
			},
		})
	}

	return RunRequest{
		AppName:    c.cfg.AppName,
		UserID:     c.cfg.UserID,
		SessionID:  c.SessionID(),
		NewMessage: genai.NewContentFromParts(parts, genai.RoleUser),
		Streaming:  c.cfg.Streaming,
	}
}

// Send posts one user turn and returns the event stream body. The caller
// must close it.
func (c *Client) Send(ctx context.Context, sr SendRequest) (io.ReadCloser, error) {
	if c.SessionID() == "" {
		return nil, ErrNoSession
	}

	body, err := json.Marshal(c.NewRunRequest(sr))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/run_sse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	logger.Debug("Sending run request: session=%s files=%d context=%d", c.SessionID(), len(sr.Files), len(sr.Context))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("send message: %w", statusError(resp))
	}
	return resp.Body, nil
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

func statusError(resp *http.Response) error {
	errorBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	var errorResp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(errorBody, &errorResp) == nil {
		if errorResp.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errorResp.Error}
		}
		if errorResp.Detail != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errorResp.Detail}
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(errorBody))}
}
