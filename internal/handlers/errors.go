package handlers

import (
	"errors"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefanr/teamup-api/internal/services"
)

// writeServiceError maps the service error taxonomy to HTTP statuses. Every
// sentinel is a recoverable caller-facing condition; anything unknown is a 500.
func writeServiceError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthorized):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrTeamInactive),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrIsOwner),
		errors.Is(err, services.ErrDuplicatePendingRequest),
		errors.Is(err, services.ErrDuplicatePendingInvitation),
		errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrMaxBelowMembers):
		_ = c.JSON(409, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidMaxMembers):
		c.BadRequest(err.Error())
	default:
		c.InternalServerError("internal error")
	}
}
