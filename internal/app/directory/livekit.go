package directory

import (
	"context"
	"errors"
	"time"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/rs/zerolog"
	"github.com/twitchtv/twirp"

	"roomkey/internal/configs"
	"roomkey/internal/pkg/errs"
	"roomkey/internal/pkg/logx"
)

// CallTimeout bounds each request to the backend's room service.
const CallTimeout = 5 * time.Second

// roomService is the subset of lksdk.RoomServiceClient used here.
type roomService interface {
	ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
	ListParticipants(ctx context.Context, req *livekit.ListParticipantsRequest) (*livekit.ListParticipantsResponse, error)
}

// CallRecorder receives one event per backend call; result is "ok", "not_found" or "error".
type CallRecorder interface {
	DirectoryCall(op, result string)
}

// LiveKit is the Directory backed by LiveKit's RoomService API.
type LiveKit struct {
	client   roomService
	recorder CallRecorder
	logger   zerolog.Logger
}

// NewLiveKit builds a directory client for cfg. With an incomplete cfg the client is
// still returned, and every call fails with ErrConfigMissing.
func NewLiveKit(cfg configs.LiveKitConfig, recorder CallRecorder) *LiveKit {
	d := &LiveKit{
		recorder: recorder,
		logger:   logx.Logger().With().Str("component", "Directory").Logger(),
	}
	if cfg.Complete() {
		d.client = lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret)
	}
	return d
}

func (d *LiveKit) record(op, result string) {
	if d.recorder != nil {
		d.recorder.DirectoryCall(op, result)
	}
}

// ListRooms returns all active rooms.
func (d *LiveKit) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	if d.client == nil {
		return nil, errs.NewError(errs.ErrConfigMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := d.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		d.record("list_rooms", "error")
		d.logger.Error().Err(err).Msg("ListRooms failed")
		return nil, errs.Wrap(errs.ErrBackendUnavailable, err)
	}

	d.record("list_rooms", "ok")

	rooms := make([]RoomSummary, 0, len(res.GetRooms()))
	for _, r := range res.GetRooms() {
		rooms = append(rooms, roomSummary(r))
	}
	return rooms, nil
}

// ListParticipants returns the participants currently in room.
func (d *LiveKit) ListParticipants(ctx context.Context, room string) ([]ParticipantSummary, error) {
	if d.client == nil {
		return nil, errs.NewError(errs.ErrConfigMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := d.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		if isNotFound(err) {
			d.record("list_participants", "not_found")
			return nil, errs.Wrap(errs.ErrRoomNotFound, err)
		}
		d.record("list_participants", "error")
		d.logger.Error().Err(err).Str("room", room).Msg("ListParticipants failed")
		return nil, errs.Wrap(errs.ErrBackendUnavailable, err)
	}

	if len(res.GetParticipants()) == 0 {
		d.record("list_participants", "not_found")
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	d.record("list_participants", "ok")

	participants := make([]ParticipantSummary, 0, len(res.GetParticipants()))
	for _, p := range res.GetParticipants() {
		participants = append(participants, participantSummary(p))
	}
	return participants, nil
}

func isNotFound(err error) bool {
	var twErr twirp.Error
	return errors.As(err, &twErr) && twErr.Code() == twirp.NotFound
}

func roomSummary(r *livekit.Room) RoomSummary {
	return RoomSummary{
		SID:             r.GetSid(),
		Name:            r.GetName(),
		NumParticipants: r.GetNumParticipants(),
		NumPublishers:   r.GetNumPublishers(),
		MaxParticipants: r.GetMaxParticipants(),
		CreationTime:    r.GetCreationTime(),
		Metadata:        r.GetMetadata(),
	}
}

func participantSummary(p *livekit.ParticipantInfo) ParticipantSummary {
	return ParticipantSummary{
		SID:         p.GetSid(),
		Identity:    p.GetIdentity(),
		Name:        p.GetName(),
		State:       p.GetState().String(),
		JoinedAt:    p.GetJoinedAt(),
		IsPublisher: p.GetIsPublisher(),
		NumTracks:   len(p.GetTracks()),
	}
}
