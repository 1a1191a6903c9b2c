package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/clock"
	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest HMAC key accepted (256 bits, the HS256 block
// output size).
const MinKeyLength = 32

// Codec signs and verifies HS256 access tokens with a single shared key.
type Codec struct {
	key    []byte
	issuer string
	kid    string
	clock  clock.Clock
	parser *jwt.Parser
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the clock used for iat/exp and expiry checks.
func WithClock(c clock.Clock) Option {
	return func(codec *Codec) { codec.clock = c }
}

// NewCodec creates an HS256 codec. The key must be at least MinKeyLength bytes.
func NewCodec(key []byte, issuer, kid string, opts ...Option) (*Codec, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrWeakKey, len(key), MinKeyLength)
	}

	c := &Codec{
		key:    append([]byte(nil), key...),
		issuer: issuer,
		kid:    kid,
		clock:  clock.Real{},
		// Expiry is checked against our own clock, not jwt's.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issuer returns the iss value stamped on issued tokens.
func (c *Codec) Issuer() string { return c.issuer }

// KeyID returns the kid header value stamped on issued tokens.
func (c *Codec) KeyID() string { return c.kid }

// Now returns the codec's notion of the current time.
func (c *Codec) Now() time.Time { return c.clock.Now() }

// Issue builds and signs a token for the client. iat is now and exp is
// now+validity.
func (c *Codec) Issue(
	clientID, tenantID string,
	scopes []string,
	validity time.Duration,
) (string, Claims, error) {
	if validity <= 0 {
		return "", Claims{}, fmt.Errorf("%w: validity must be positive", ErrInvalidClaim)
	}

	claims := NewAccessClaims(clientID, tenantID, scopes, validity, c.issuer, c.clock.Now())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if c.kid != "" {
		token.Header["kid"] = c.kid
	}

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, claims, nil
}

// Decode verifies the signature and parses the claims. It never returns a
// partially populated claim set: on any failure the claims are zero.
func (c *Codec) Decode(tokenStr string) (Claims, error) {
	var claims Claims

	_, err := c.parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrAlgMismatch
		}
		return c.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateRequired(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// IsExpired reports whether exp is at or before the current time.
func (c *Codec) IsExpired(claims Claims) bool {
	return claims.ExpiredAt(c.clock.Now())
}

// Verify decodes the token and additionally enforces expiry and issuer.
// It satisfies Verifier for the bearer authentication middleware.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	claims, err := c.Decode(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if c.IsExpired(claims) {
		return Claims{}, ErrExpired
	}
	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
