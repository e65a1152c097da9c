// AngelaMos | 2026
// tokens.go

package demo

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const (
	issuer         = "tradesignal-demo"
	accessTokenTTL = 15 * time.Minute
)

// tokenIssuer signs ES256 access tokens with a keypair generated at
// startup. The demo backend is its own token authority; nothing
// persists across restarts.
type tokenIssuer struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	ttl        time.Duration
}

func newTokenIssuer() (*tokenIssuer, error) {
	rawKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	privateKey, err := jwk.Import(rawKey)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}

	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return &tokenIssuer{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        accessTokenTTL,
	}, nil
}

func (i *tokenIssuer) createAccessToken(u *userRecord) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(issuer).
		Subject(u.ID).
		IssuedAt(now).
		Expiration(now.Add(i.ttl)).
		Claim("role", u.Role).
		Claim("tier", u.Tier).
		Claim("type", "access").
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), i.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// verifyAccessToken returns the subject user ID for a valid token.
func (i *tokenIssuer) verifyAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), i.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf("verify token: missing subject")
	}

	return subject, nil
}

func newRefreshToken() string {
	return uuid.New().String() + uuid.New().String()
}
