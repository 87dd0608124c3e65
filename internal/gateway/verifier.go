package gateway

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/routing"
)

var (
	ErrNotEd25519        = errors.New("platform public key is not ed25519")
	ErrBadSignature      = errors.New("envelope signature verification failed")
	ErrEmptyNotification = errors.New("notification carries neither event nor rejection")
)

// Verifier checks the platform's signatures on inbound traffic: EdDSA JWTs
// on commands and raw ed25519 signatures on notification envelopes.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier parses a PEM-encoded ed25519 public key.
func NewVerifier(pemKey string) (*Verifier, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("platform public key is not valid PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing platform public key: %w", err)
	}
	key, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	return &Verifier{key: key}, nil
}

// CommandArg is one named argument of a slash command.
type CommandArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CommandSpec is the command portion of a verified command token.
type CommandSpec struct {
	Name string       `json:"name"`
	Args []CommandArg `json:"args,omitempty"`
}

// CommandClaims are the claims the platform signs into a command JWT.
type CommandClaims struct {
	jwt.RegisteredClaims

	Initiator   string       `json:"initiator"`
	APIGateway  string       `json:"botApiGateway,omitempty"`
	Chat        *domain.Chat `json:"chat,omitempty"`
	CommunityID string       `json:"communityId,omitempty"`
	ThreadID    string       `json:"threadId,omitempty"`
	MessageID   string       `json:"messageId,omitempty"`
	Command     CommandSpec  `json:"command"`
}

// VerifyCommandToken validates an EdDSA-signed command JWT and returns its
// claims.
func (v *Verifier) VerifyCommandToken(token string) (*CommandClaims, error) {
	claims := &CommandClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("command token rejected: %w", err)
	}
	return claims, nil
}

// Envelope is the wire form of a pushed notification: a msgpack payload
// signed by the platform.
type Envelope struct {
	Gateway   string `msgpack:"gateway"`
	Payload   []byte `msgpack:"payload"`
	Signature []byte `msgpack:"signature"`
}

// Notification is the decoded envelope payload: either a platform event or
// a delivery rejection.
type Notification struct {
	Event     *domain.Event             `msgpack:"event,omitempty"`
	Rejection *routing.Rejection        `msgpack:"rejection,omitempty"`
	Granted   domain.EncodedPermissions `msgpack:"granted,omitempty"`
}

// VerifyEnvelope checks the envelope signature and decodes the payload.
func (v *Verifier) VerifyEnvelope(data []byte) (*Notification, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if !ed25519.Verify(v.key, env.Payload, env.Signature) {
		return nil, ErrBadSignature
	}

	var n Notification
	if err := msgpack.Unmarshal(env.Payload, &n); err != nil {
		return nil, fmt.Errorf("malformed notification payload: %w", err)
	}
	if n.Event == nil && n.Rejection == nil {
		return nil, ErrEmptyNotification
	}
	if n.Event != nil {
		n.Event.APIGateway = env.Gateway
	}
	return &n, nil
}
