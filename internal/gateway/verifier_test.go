package gateway

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/routing"
)

// testKeyPair generates an ed25519 pair and the PEM form of the public key.
func testKeyPair(t *testing.T) (ed25519.PrivateKey, string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return priv, string(pemKey)
}

// signEnvelope wraps a notification in a signed wire envelope.
func signEnvelope(t *testing.T, priv ed25519.PrivateKey, gateway string, n Notification) []byte {
	t.Helper()
	payload, err := msgpack.Marshal(n)
	require.NoError(t, err)

	env := Envelope{
		Gateway:   gateway,
		Payload:   payload,
		Signature: ed25519.Sign(priv, payload),
	}
	data, err := msgpack.Marshal(env)
	require.NoError(t, err)
	return data
}

// signCommand produces an EdDSA command JWT.
func signCommand(t *testing.T, priv ed25519.PrivateKey, claims *CommandClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Minute))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(priv)
	require.NoError(t, err)
	return token
}

func TestNewVerifier_RejectsGarbage(t *testing.T) {
	_, err := NewVerifier("not a pem block")
	assert.Error(t, err)
}

func TestNewVerifier_RejectsNonEd25519(t *testing.T) {
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte("garbage")})
	_, err := NewVerifier(string(pemKey))
	assert.Error(t, err)
}

func TestVerifyCommandToken_RoundTrip(t *testing.T) {
	priv, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	chat := domain.Chat{Kind: domain.ChatGroup, ID: "g1"}
	token := signCommand(t, priv, &CommandClaims{
		Initiator:  "user-1",
		APIGateway: "https://gw.example",
		Chat:       &chat,
		MessageID:  "m-9",
		Command: CommandSpec{
			Name: "ask",
			Args: []CommandArg{{Name: "prompt", Value: "hello"}},
		},
	})

	claims, err := v.VerifyCommandToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Initiator)
	assert.Equal(t, "ask", claims.Command.Name)
	require.NotNil(t, claims.Chat)
	assert.Equal(t, "g1", claims.Chat.ID)
}

func TestVerifyCommandToken_WrongKey(t *testing.T) {
	priv, _ := testKeyPair(t)
	_, otherPem := testKeyPair(t)
	v, err := NewVerifier(otherPem)
	require.NoError(t, err)

	token := signCommand(t, priv, &CommandClaims{Command: CommandSpec{Name: "ping"}})
	_, err = v.VerifyCommandToken(token)
	assert.Error(t, err)
}

func TestVerifyCommandToken_RejectsNonEdDSAAlg(t *testing.T) {
	_, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &CommandClaims{
		Command: CommandSpec{Name: "ping"},
	}).SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.VerifyCommandToken(token)
	assert.Error(t, err)
}

func TestVerifyCommandToken_Expired(t *testing.T) {
	priv, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	token := signCommand(t, priv, &CommandClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Command: CommandSpec{Name: "ping"},
	})
	_, err = v.VerifyCommandToken(token)
	assert.Error(t, err)
}

func TestVerifyEnvelope_RoundTrip(t *testing.T) {
	priv, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	data := signEnvelope(t, priv, "https://gw.example", Notification{
		Event: &domain.Event{
			Kind:      domain.EventInstalled,
			Installed: &domain.InstalledEvent{Location: domain.GroupLocation("g1")},
		},
	})

	n, err := v.VerifyEnvelope(data)
	require.NoError(t, err)
	require.NotNil(t, n.Event)
	assert.Equal(t, domain.EventInstalled, n.Event.Kind)
	assert.Equal(t, "https://gw.example", n.Event.APIGateway)
}

func TestVerifyEnvelope_TamperedPayload(t *testing.T) {
	priv, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	payload, err := msgpack.Marshal(Notification{
		Rejection: &routing.Rejection{Reason: "Invalid scope"},
	})
	require.NoError(t, err)

	sig := ed25519.Sign(priv, payload)
	payload[0] ^= 0xff

	data, err := msgpack.Marshal(Envelope{Gateway: "g", Payload: payload, Signature: sig})
	require.NoError(t, err)

	_, err = v.VerifyEnvelope(data)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyEnvelope_EmptyNotification(t *testing.T) {
	priv, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	data := signEnvelope(t, priv, "g", Notification{})
	_, err = v.VerifyEnvelope(data)
	assert.ErrorIs(t, err, ErrEmptyNotification)
}

func TestVerifyEnvelope_Malformed(t *testing.T) {
	_, pemKey := testKeyPair(t)
	v, err := NewVerifier(pemKey)
	require.NoError(t, err)

	_, err = v.VerifyEnvelope([]byte("definitely not msgpack"))
	assert.Error(t, err)
}
