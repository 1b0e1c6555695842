package jwt

import "github.com/golang-jwt/jwt"

// VideoGrant is the room capability set carried under the "video" claim.
// The can* fields are never omitted: LiveKit treats a missing capability as granted.
type VideoGrant struct {
	RoomJoin       bool   `json:"roomJoin,omitempty"`
	Room           string `json:"room,omitempty"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

// Payload defines the claims of a LiveKit access token.
// StandardClaims is embedded untagged so exp, iss, sub, nbf and jti sit at the top level.
type Payload struct {
	jwt.StandardClaims

	// Name is the participant's display name; defaults to the identity.
	Name string `json:"name,omitempty"`

	// Video is the room grant.
	Video *VideoGrant `json:"video,omitempty"`
}

// Identity returns the participant identity (the sub claim).
func (p *Payload) Identity() string {
	return p.Subject
}
