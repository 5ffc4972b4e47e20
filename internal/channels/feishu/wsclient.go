package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WSEventHandler receives decoded event frames off a long-lived Feishu
// WebSocket connection.
type WSEventHandler interface {
	HandleEvent(ctx context.Context, payload []byte) error
}

// WSClient maintains Feishu's "long connection" (event push over WebSocket)
// as an alternative to the webhook delivery mode: it exchanges the app's
// credentials for a connection endpoint, dials it, and redials with backoff
// whenever the connection drops.
type WSClient struct {
	appID     string
	appSecret string
	domain    string
	handler   WSEventHandler

	httpClient *http.Client

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWSClient builds a WSClient for the given app credentials. domain is the
// resolved Feishu/Lark API base URL (see resolveDomain).
func NewWSClient(appID, appSecret, domain string, handler WSEventHandler) *WSClient {
	return &WSClient{
		appID:      appID,
		appSecret:  appSecret,
		domain:     domain,
		handler:    handler,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		stopCh:     make(chan struct{}),
	}
}

// Start connects and redials with exponential backoff until ctx is
// cancelled or Stop is called. Blocks the calling goroutine.
func (c *WSClient) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		if c.stopped() {
			return nil
		}

		endpoint, err := c.fetchEndpoint(ctx)
		if err != nil {
			slog.Warn("feishu ws: fetch endpoint failed", "error", err)
			if !c.sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = minDuration(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second

		if err := c.runConnection(ctx, endpoint); err != nil {
			slog.Warn("feishu ws: connection dropped", "error", err)
		}

		if c.stopped() {
			return nil
		}
		if !c.sleep(ctx, time.Second) {
			return ctx.Err()
		}
	}
}

// Stop tears down the connection and prevents further redial attempts.
func (c *WSClient) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *WSClient) stopped() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func (c *WSClient) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

// endpointResponse is the reply from Feishu's long-connection endpoint
// exchange: it hands back a one-shot wss:// URL to dial.
type endpointResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		URL string `json:"URL"`
	} `json:"data"`
}

func (c *WSClient) fetchEndpoint(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"AppID":     c.appID,
		"AppSecret": c.appSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.domain+"/callback/ws/endpoint", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("endpoint request: %w", err)
	}
	defer resp.Body.Close()

	var result endpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("endpoint decode: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("endpoint error: code=%d msg=%s", result.Code, result.Msg)
	}
	if result.Data.URL == "" {
		return "", fmt.Errorf("endpoint response missing URL")
	}
	return result.Data.URL, nil
}

func (c *WSClient) runConnection(ctx context.Context, endpoint string) error {
	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(4 << 20) // 4MiB, events can carry inline media metadata
	defer conn.Close(websocket.StatusNormalClosure, "")

	for {
		if c.stopped() {
			return nil
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if err := c.handler.HandleEvent(ctx, data); err != nil {
			slog.Debug("feishu ws: handler error", "error", err)
		}
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
