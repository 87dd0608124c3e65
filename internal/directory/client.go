package directory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/logging"
)

// productionHostSubstrings identify hosts whose trust material ships with
// the platform; the root-key bootstrap is skipped for them.
var productionHostSubstrings = []string{"ic0.app", "icp0.io"}

// Lookup resolves batches of textual principals to display profiles.
type Lookup interface {
	LookupProfiles(ctx context.Context, userIDs []string) ([]domain.UserProfile, error)
}

// Client queries the remote user directory over a CBOR-encoded batch
// protocol.
type Client struct {
	host string
	http *http.Client
	log  *logging.Logger

	bootstrapOnce sync.Once
	// rootKey is the trust anchor fetched from non-production hosts.
	// The batch lookup is an uncertified query, so nothing consumes it
	// yet; certified-response verification would check against it.
	rootKey []byte
}

// NewClient creates a directory client for the given host.
func NewClient(host string, log *logging.Logger) *Client {
	return &Client{
		host: strings.TrimRight(host, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log.Sub("directory"),
	}
}

type batchRequest struct {
	Principals [][]byte `cbor:"principals"`
}

type userSummary struct {
	Principal   []byte `cbor:"principal"`
	Username    string `cbor:"username,omitempty"`
	DisplayName string `cbor:"displayName,omitempty"`
}

type batchResponse struct {
	Users []userSummary `cbor:"users"`
}

type statusResponse struct {
	RootKey []byte `cbor:"rootKey"`
}

// LookupProfiles encodes each id as a binary principal, issues one batched
// query, and maps the typed response back to profiles. Invalid ids are
// dropped with a warning, never fatal; so are response entries without a
// decodable principal.
func (c *Client) LookupProfiles(ctx context.Context, userIDs []string) ([]domain.UserProfile, error) {
	principals := make([][]byte, 0, len(userIDs))
	for _, id := range userIDs {
		raw, err := DecodePrincipal(id)
		if err != nil {
			c.log.Warn().Err(err).Str("userId", id).Msg("dropping malformed principal from batch")
			continue
		}
		principals = append(principals, raw)
	}
	if len(principals) == 0 {
		return nil, nil
	}

	c.ensureRootKey(ctx)

	payload, err := cbor.Marshal(batchRequest{Principals: principals})
	if err != nil {
		return nil, fmt.Errorf("encoding directory query: %w", err)
	}

	data, err := c.post(ctx, "/directory/query", payload)
	if err != nil {
		return nil, err
	}

	var resp batchResponse
	if err := cbor.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding directory response: %w", err)
	}

	profiles := make([]domain.UserProfile, 0, len(resp.Users))
	for _, u := range resp.Users {
		if len(u.Principal) == 0 {
			c.log.Warn().Msg("dropping directory entry without principal")
			continue
		}
		profiles = append(profiles, domain.UserProfile{
			UserID:      EncodePrincipal(u.Principal),
			Username:    u.Username,
			DisplayName: u.DisplayName,
		})
	}
	return profiles, nil
}

// ensureRootKey performs the one-time best-effort trust bootstrap. Known
// production hosts already carry their trust material; bootstrap failure is
// logged and later queries proceed with whatever is available.
func (c *Client) ensureRootKey(ctx context.Context) {
	c.bootstrapOnce.Do(func() {
		for _, prod := range productionHostSubstrings {
			if strings.Contains(c.host, prod) {
				return
			}
		}

		data, err := c.get(ctx, "/api/v2/status")
		if err != nil {
			c.log.Warn().Err(err).Str("host", c.host).Msg("root key bootstrap failed")
			return
		}
		var status statusResponse
		if err := cbor.Unmarshal(data, &status); err != nil {
			c.log.Warn().Err(err).Msg("root key bootstrap: malformed status")
			return
		}
		c.rootKey = status.RootKey
		c.log.Info().Str("host", c.host).Msg("root key fetched")
	})
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/cbor")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
