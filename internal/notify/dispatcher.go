package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/stefanr/teamup-api/internal/database"
	"go.uber.org/zap"
)

var emailSubjects = map[string]string{
	KindRequestSubmitted:   "New join request for %s",
	KindRequestApproved:    "Your request to join %s was approved",
	KindRequestRejected:    "Your request to join %s was rejected",
	KindInvitationSent:     "You've been invited to join %s",
	KindInvitationAccepted: "Your invitation to %s was accepted",
	KindInvitationRejected: "Your invitation to %s was declined",
	KindMemberRemoved:      "You were removed from %s",
}

// Service delivers membership events to the in-process hub and, when SMTP is
// configured, by email. Delivery is fire-and-forget: failures are logged and
// dropped, never returned to the triggering operation.
type Service struct {
	db    *database.DB
	hub   *Hub
	email *EmailSender
	log   *zap.SugaredLogger
}

func NewService(db *database.DB, hub *Hub, email *EmailSender, log *zap.SugaredLogger) *Service {
	return &Service{
		db:    db,
		hub:   hub,
		email: email,
		log:   log,
	}
}

func (s *Service) Notify(event Event) {
	if !s.hub.Publish(event.TargetID, event) {
		s.log.Warnw("notification hub buffer full, event dropped",
			"kind", event.Kind, "target_id", event.TargetID)
	}

	if !s.email.Enabled() {
		return
	}

	go s.sendEmail(event)
}

func (s *Service) sendEmail(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var to, teamName string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT u.email, t.name
		FROM users u, teams t
		WHERE u.id = $1 AND t.id = $2
	`, event.TargetID, event.TeamID).Scan(&to, &teamName)
	if err != nil {
		s.log.Warnw("failed to resolve notification recipient",
			"kind", event.Kind, "target_id", event.TargetID, "error", err)
		return
	}

	subjectFmt, ok := emailSubjects[event.Kind]
	if !ok {
		return
	}
	subject := fmt.Sprintf(subjectFmt, teamName)

	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			<p>Open the app to see the details for team <strong>%s</strong>.</p>
		</body>
		</html>
	`, subject, teamName)

	if err := s.email.Send(to, subject, body); err != nil {
		s.log.Warnw("failed to send notification email",
			"kind", event.Kind, "to", to, "error", err)
	}
}
