package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

const bearerPrefix = "Bearer "

// Principal is the authenticated identity attached to a request. Derived from
// a verified token, never persisted.
type Principal struct {
	SubjectID uuid.UUID
	Role      models.Role
	Email     string
	TokenID   string
}

// Gate resolves a raw Authorization header into a Principal and checks it
// against an operation's allowed role set. Ownership checks are the caller's
// job, performed after Authorize.
type Gate struct {
	codec     *Codec
	blacklist Blacklist
}

func NewGate(codec *Codec, blacklist Blacklist) *Gate {
	return &Gate{codec: codec, blacklist: blacklist}
}

func (g *Gate) Authenticate(ctx context.Context, header string) (Principal, error) {
	if header == "" {
		return Principal{}, ErrMissingCredential
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Principal{}, ErrMalformedCredential
	}

	tok, err := g.codec.Decode(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return Principal{}, err
	}

	revoked, err := g.blacklist.IsRevoked(ctx, tok.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return Principal{}, ErrRevokedToken
	}

	return Principal{
		SubjectID: tok.SubjectID,
		Role:      tok.Role,
		Email:     tok.Email,
		TokenID:   tok.ID,
	}, nil
}

// Authorize is a pure set-membership check; no other business rule lives here.
func (g *Gate) Authorize(p Principal, allowed ...models.Role) error {
	if !p.Role.In(allowed...) {
		return ErrAccessDenied
	}
	return nil
}
