/*
Package issuer signs participant access tokens for the conferencing backend.

Issuance is local: it only needs the API key, secret and service URL and never
contacts the backend.
*/
package issuer

import (
	"strings"
	"time"

	"roomkey/internal/configs"
	"roomkey/internal/pkg/auth/jwt"
	"roomkey/internal/pkg/errs"
)

// Grant is the capability set embedded in a credential. Room join is always granted.
type Grant struct {
	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
}

var (
	// StandardGrant lets a participant publish media and data and subscribe to others.
	StandardGrant = Grant{CanPublish: true, CanSubscribe: true, CanPublishData: true}

	// ObserverGrant is subscribe-only for media but may still publish data messages.
	ObserverGrant = Grant{CanPublish: false, CanSubscribe: true, CanPublishData: true}
)

// Credential is one signed token plus where to use it.
type Credential struct {
	Identity   string
	Token      string
	Room       string
	ServiceURL string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Issuer signs credentials with a fixed LiveKit configuration.
type Issuer struct {
	cfg configs.LiveKitConfig
	ttl time.Duration
	now func() time.Time
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// New returns an Issuer for cfg. An incomplete cfg is accepted here and reported by Issue.
func New(cfg configs.LiveKitConfig, opts ...Option) *Issuer {
	i := &Issuer{
		cfg: cfg,
		ttl: jwt.AccessTokenTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ready returns ErrConfigMissing when the key, secret or URL is not configured.
func (i *Issuer) Ready() error {
	if !i.cfg.Complete() {
		return errs.NewError(errs.ErrConfigMissing)
	}
	return nil
}

// Issue signs a token binding identity to grant in room, valid for one hour from now.
func (i *Issuer) Issue(identity, room string, grant Grant) (Credential, error) {
	if err := i.Ready(); err != nil {
		return Credential{}, err
	}
	if strings.TrimSpace(identity) == "" {
		return Credential{}, errs.NewError(errs.ErrIdentityRequired)
	}
	if strings.TrimSpace(room) == "" {
		return Credential{}, errs.NewError(errs.ErrRoomNameRequired)
	}

	issuedAt := i.now().Truncate(time.Second)

	token, err := jwt.GenerateToken(jwt.TokenParams{
		APIKey:    i.cfg.APIKey,
		APISecret: i.cfg.APISecret,
		Identity:  identity,
		Grant: jwt.VideoGrant{
			RoomJoin:       true,
			Room:           room,
			CanPublish:     grant.CanPublish,
			CanSubscribe:   grant.CanSubscribe,
			CanPublishData: grant.CanPublishData,
		},
		IssuedAt: issuedAt,
		TTL:      i.ttl,
	})
	if err != nil {
		return Credential{}, errs.Wrap(errs.ErrUnknown, err)
	}

	return Credential{
		Identity:   identity,
		Token:      token,
		Room:       room,
		ServiceURL: i.cfg.URL,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(i.ttl),
	}, nil
}

// Verify decodes a credential token issued by this Issuer as of now.
func (i *Issuer) Verify(token string) (*jwt.Payload, error) {
	return jwt.ParseToken(token, i.cfg.APISecret, i.now())
}
