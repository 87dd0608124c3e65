package directory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfiles(t *testing.T) {
	alice := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	statusCalls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/status":
			statusCalls++
			out, _ := cbor.Marshal(statusResponse{RootKey: []byte{0xaa, 0xbb}})
			w.Write(out)
		case "/directory/query":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var req batchRequest
			require.NoError(t, cbor.Unmarshal(body, &req))
			require.Len(t, req.Principals, 1)
			assert.Equal(t, alice, req.Principals[0])

			out, _ := cbor.Marshal(batchResponse{Users: []userSummary{
				{Principal: alice, Username: "alice", DisplayName: "Alice"},
				{Principal: nil, Username: "ghost"}, // dropped
			}})
			w.Write(out)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	ids := []string{EncodePrincipal(alice), "not-a-principal!"}
	profiles, err := client.LookupProfiles(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[0].Username)
	assert.Equal(t, EncodePrincipal(alice), profiles[0].UserID)

	// Bootstrap runs once even across repeated lookups.
	_, err = client.LookupProfiles(context.Background(), []string{EncodePrincipal(alice)})
	require.NoError(t, err)
	assert.Equal(t, 1, statusCalls)
	assert.Equal(t, []byte{0xaa, 0xbb}, client.rootKey)
}

func TestLookupProfiles_AllInvalidIDs(t *testing.T) {
	client := NewClient("http://unreachable.invalid", testLogger())

	// No valid principals means no remote call and no error.
	profiles, err := client.LookupProfiles(context.Background(), []string{"bad!", "also bad"})
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestLookupProfiles_BootstrapFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/status":
			w.WriteHeader(http.StatusInternalServerError)
		case "/directory/query":
			out, _ := cbor.Marshal(batchResponse{})
			w.Write(out)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	profiles, err := client.LookupProfiles(context.Background(), []string{EncodePrincipal([]byte{0x04})})
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.Nil(t, client.rootKey)
}

func TestLookupProfiles_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/status" {
			out, _ := cbor.Marshal(statusResponse{})
			w.Write(out)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.LookupProfiles(context.Background(), []string{EncodePrincipal([]byte{0x04})})
	assert.Error(t, err)
}
