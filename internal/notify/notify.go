package notify

import (
	"github.com/google/uuid"
)

// Event kinds emitted by the membership lifecycle. TargetID is the user the
// event is addressed to.
const (
	KindRequestSubmitted   = "request.submitted"
	KindRequestApproved    = "request.approved"
	KindRequestRejected    = "request.rejected"
	KindInvitationSent     = "invitation.sent"
	KindInvitationAccepted = "invitation.accepted"
	KindInvitationRejected = "invitation.rejected"
	KindMemberRemoved      = "member.removed"
)

type Event struct {
	Kind     string    `json:"kind"`
	TeamID   uuid.UUID `json:"team_id"`
	ActorID  uuid.UUID `json:"actor_id"`
	TargetID uuid.UUID `json:"target_id"`
}

// Dispatcher delivers membership events best-effort. Implementations must
// never block the caller on delivery and never return delivery failures.
type Dispatcher interface {
	Notify(event Event)
}
