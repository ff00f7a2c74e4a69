package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

const (
	DefaultIssuer = "idm-service"
	DefaultTTL    = 60 * time.Minute
)

type tokenClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token is the decoded form of a signed auth token. Immutable once issued.
type Token struct {
	ID        string
	SubjectID uuid.UUID
	Role      models.Role
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies HS256-signed tokens. Decoding performs no I/O.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewCodec(secret, issuer string, ttl time.Duration) *Codec {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a token for the subject with a fresh random token id and
// expiry = now + TTL. Returns the compact serialization and the decoded form.
func (c *Codec) Issue(subjectID uuid.UUID, role models.Role, email string) (string, Token, error) {
	now := time.Now()
	tok := Token{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Role:      role,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	claims := tokenClaims{
		Role:  string(role),
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(tok.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
			ID:        tok.ID,
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Token{}, err
	}
	return raw, tok, nil
}

// Decode verifies signature, issuer and expiry. Fails with ErrMalformedToken
// for anything structurally or cryptographically wrong, ErrExpiredToken for a
// well-formed but stale token.
func (c *Codec) Decode(raw string) (Token, error) {
	return c.decode(raw, false)
}

// DecodeAllowExpired verifies signature and issuer but tolerates a past
// expiry. Logout uses it: an expired token can still be revoked.
func (c *Codec) DecodeAllowExpired(raw string) (Token, error) {
	return c.decode(raw, true)
}

func (c *Codec) decode(raw string, allowExpired bool) (Token, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Token{}, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			if !allowExpired {
				return Token{}, ErrExpiredToken
			}
		default:
			return Token{}, ErrMalformedToken
		}
	}
	return tokenFromClaims(&claims)
}

func tokenFromClaims(claims *tokenClaims) (Token, error) {
	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return Token{}, ErrMalformedToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return Token{}, ErrMalformedToken
	}

	tok := Token{
		ID:        claims.ID,
		SubjectID: subjectID,
		Role:      role,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	return tok, nil
}
