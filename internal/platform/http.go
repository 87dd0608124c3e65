package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/logging"
)

const defaultCallTimeout = 30 * time.Second

// HTTPFactory builds clients that talk msgpack over HTTP to an
// installation's API gateway.
type HTTPFactory struct {
	http *http.Client
	log  *logging.Logger
}

// NewHTTPFactory creates a client factory backed by a shared HTTP client.
func NewHTTPFactory(log *logging.Logger) *HTTPFactory {
	return &HTTPFactory{
		http: &http.Client{Timeout: defaultCallTimeout},
		log:  log.Sub("platform"),
	}
}

// ClientFor returns a client authorized for the given scope and grant.
func (f *HTTPFactory) ClientFor(scope domain.ActionScope, gateway string, granted domain.EncodedPermissions) Client {
	return &httpClient{
		scope:   scope,
		gateway: strings.TrimRight(gateway, "/"),
		granted: granted,
		http:    f.http,
		log:     f.log,
	}
}

type httpClient struct {
	scope   domain.ActionScope
	gateway string
	granted domain.EncodedPermissions
	http    *http.Client
	log     *logging.Logger
}

// sendAction is the wire envelope for an outbound bot action.
type sendAction struct {
	Action    string             `msgpack:"action"`
	Scope     domain.ActionScope `msgpack:"scope"`
	MessageID string             `msgpack:"messageId,omitempty"`
	Message   *Message           `msgpack:"message,omitempty"`
	Chat      *domain.Chat       `msgpack:"chat,omitempty"`
}

// sendResponse is the wire shape of the gateway's reply.
type sendResponse struct {
	Success   bool        `msgpack:"success"`
	MessageID string      `msgpack:"messageId,omitempty"`
	Error     string      `msgpack:"error,omitempty"`
	Summary   ChatSummary `msgpack:"summary,omitempty"`
}

func (c *httpClient) Scope() domain.ActionScope { return c.scope }

func (c *httpClient) SendMessage(ctx context.Context, msg Message) SendResult {
	if !c.granted.HasMessage(domain.PermText) {
		return SendResult{Err: "text message permission not granted"}
	}

	action := sendAction{
		Action:    "send_message",
		Scope:     c.scope,
		MessageID: uuid.New().String(),
		Message:   &msg,
	}

	var resp sendResponse
	if err := c.call(ctx, "/execute", action, &resp); err != nil {
		c.log.Warn().Err(err).Str("gateway", c.gateway).Msg("send failed")
		return SendResult{Err: err.Error()}
	}
	if !resp.Success {
		return SendResult{Err: resp.Error}
	}

	id := resp.MessageID
	if id == "" {
		id = action.MessageID
	}
	return SendResult{OK: true, MessageID: id}
}

func (c *httpClient) ChatSummary(ctx context.Context, chat domain.Chat) (ChatSummary, error) {
	action := sendAction{
		Action: "chat_summary",
		Scope:  c.scope,
		Chat:   &chat,
	}

	var resp sendResponse
	if err := c.call(ctx, "/query", action, &resp); err != nil {
		return ChatSummary{}, err
	}
	if !resp.Success {
		return ChatSummary{}, fmt.Errorf("chat summary rejected: %s", resp.Error)
	}
	return resp.Summary, nil
}

func (c *httpClient) call(ctx context.Context, path string, payload, out any) error {
	body, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gateway+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/msgpack")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(data))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}
	return nil
}
