/*
Package directory is a read-only view of the conferencing backend's rooms and participants.

Nothing is cached and nothing is retried: every call is a live request to the backend.
*/
package directory

import "context"

// RoomSummary is the operator view of one active room.
type RoomSummary struct {
	SID             string `json:"sid"`
	Name            string `json:"name"`
	NumParticipants uint32 `json:"numParticipants"`
	NumPublishers   uint32 `json:"numPublishers"`
	MaxParticipants uint32 `json:"maxParticipants"`
	CreationTime    int64  `json:"creationTime"`
	Metadata        string `json:"metadata,omitempty"`
}

// ParticipantSummary is the operator view of one participant in a room.
type ParticipantSummary struct {
	SID         string `json:"sid"`
	Identity    string `json:"identity"`
	Name        string `json:"name,omitempty"`
	State       string `json:"state"`
	JoinedAt    int64  `json:"joinedAt"`
	IsPublisher bool   `json:"isPublisher"`
	NumTracks   int    `json:"numTracks"`
}

// Directory lists rooms and participants.
//
// ListParticipants returns an errs.ErrRoomNotFound error when the room does not
// exist or is empty. Backend failures are errs.ErrBackendUnavailable and missing
// credentials are errs.ErrConfigMissing.
type Directory interface {
	ListRooms(ctx context.Context) ([]RoomSummary, error)
	ListParticipants(ctx context.Context, room string) ([]ParticipantSummary, error)
}
