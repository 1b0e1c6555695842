/*
Package admission decides which identities a request is admitted with and what each may do.

Standard requests admit every named participant plus any number of generated ones.
Observer requests admit one numbered, subscribe-only observer, at most ObserverCapacity
per room. Observer numbering goes through a SlotLedger; with a BestEffortLedger it is
the unserialized count-then-assign of the directory and can race.
*/
package admission

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"roomkey/internal/app/directory"
	"roomkey/internal/app/issuer"
	"roomkey/internal/pkg/errs"
	"roomkey/internal/pkg/logx"
	"roomkey/internal/pkg/randx"
)

const (
	// ObserverCapacity is the maximum number of concurrent observers per room.
	ObserverCapacity = 10

	// MaxParticipantsPerRequest caps names plus count in one standard request.
	MaxParticipantsPerRequest = 500

	// ObserverSectionTimeout bounds the work done while a room is acquired
	// (directory listing, Held, Hold). Ledger locks must outlive it.
	ObserverSectionTimeout = 8 * time.Second
)

// Request is one admission request.
type Request struct {
	Room  string
	Names []string
	Count int
	Role  Role
}

// Admission is one identity to issue a credential for.
type Admission struct {
	Identity string
	Grant    issuer.Grant
}

// ParticipantLister is the part of directory.Directory the policy needs.
type ParticipantLister interface {
	ListParticipants(ctx context.Context, room string) ([]directory.ParticipantSummary, error)
}

// Policy computes admissions.
type Policy struct {
	participants ParticipantLister
	ledger       SlotLedger
	newUserID    func() (string, error)
	section      time.Duration
	logger       zerolog.Logger
}

// NewPolicy returns a Policy that counts observers through participants and ledger.
// A nil ledger means BestEffortLedger.
func NewPolicy(participants ParticipantLister, ledger SlotLedger) *Policy {
	if ledger == nil {
		ledger = BestEffortLedger{}
	}
	return &Policy{
		participants: participants,
		ledger:       ledger,
		newUserID:    randx.UserID,
		section:      ObserverSectionTimeout,
		logger:       logx.Logger().With().Str("component", "Admission").Logger(),
	}
}

// NormalizeRoom trims room and rejects it when blank.
// The trimmed name, not the raw input, is what gets signed into the grant.
func NormalizeRoom(room string) (string, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return "", errs.NewError(errs.ErrRoomNameRequired)
	}
	return room, nil
}

// Admit returns the admissions for req, all in the same (trimmed) room.
func (p *Policy) Admit(ctx context.Context, req Request) (string, []Admission, error) {
	room, err := NormalizeRoom(req.Room)
	if err != nil {
		return "", nil, err
	}

	switch req.Role {
	case RoleStandard:
		admissions, err := p.admitStandard(req.Names, req.Count)
		return room, admissions, err
	case RoleObserver:
		admission, err := p.admitObserver(ctx, room)
		if err != nil {
			return room, nil, err
		}
		return room, []Admission{admission}, nil
	default:
		return room, nil, errs.NewError(errs.ErrRoleInvalid, req.Role.String())
	}
}

func (p *Policy) admitStandard(names []string, count int) ([]Admission, error) {
	count = max(count, 0)

	identities := make([]string, 0, len(names))
	for _, n := range names {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			identities = append(identities, trimmed)
		}
	}

	if len(identities)+count > MaxParticipantsPerRequest {
		return nil, errs.NewError(errs.ErrTooManyParticipants, MaxParticipantsPerRequest)
	}

	for range count {
		id, err := p.newUserID()
		if err != nil {
			return nil, errs.Wrap(errs.ErrUnknown, err)
		}
		identities = append(identities, id)
	}

	if len(identities) == 0 {
		return nil, errs.NewError(errs.ErrNoParticipants)
	}

	admissions := make([]Admission, len(identities))
	for i, id := range identities {
		admissions[i] = Admission{Identity: id, Grant: issuer.StandardGrant}
	}
	return admissions, nil
}

func (p *Policy) admitObserver(ctx context.Context, room string) (Admission, error) {
	release, err := p.ledger.Acquire(ctx, room)
	if err != nil {
		return Admission{}, errs.Wrap(errs.ErrSlotLedger, err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, p.section)
	defer cancel()

	inUse := make(map[string]int)

	participants, err := p.participants.ListParticipants(ctx, room)
	if err != nil {
		// Unknown, empty or unreachable rooms count as having no observers.
		event := p.logger.Warn()
		if errs.CodeOf(err) == errs.ErrRoomNotFound {
			event = p.logger.Debug()
		}
		event.Err(err).Str("room", room).Msg("Observer count fell back to zero")
	}
	for _, pt := range participants {
		if n, ok := randx.ParseObserverID(pt.Identity); ok {
			inUse[pt.Identity] = n
		}
	}

	held, err := p.ledger.Held(ctx, room)
	if err != nil {
		return Admission{}, errs.Wrap(errs.ErrSlotLedger, err)
	}
	for _, id := range held {
		if n, ok := randx.ParseObserverID(id); ok {
			inUse[id] = n
		}
	}

	if len(inUse) >= ObserverCapacity {
		return Admission{}, errs.NewError(errs.ErrObserverCapacity, ObserverCapacity)
	}

	highest := 0
	for _, n := range inUse {
		highest = max(highest, n)
	}
	identity := randx.ObserverID(highest + 1)

	if err := p.ledger.Hold(ctx, room, identity); err != nil {
		return Admission{}, errs.Wrap(errs.ErrSlotLedger, err)
	}

	p.logger.Info().
		Str("room", room).
		Str("identity", identity).
		Int("observers_before", len(inUse)).
		Msg("Observer admitted")

	return Admission{Identity: identity, Grant: issuer.ObserverGrant}, nil
}
