package events

import "go.uber.org/zap"

// Listener turns raw Keycloak events into notifications. Only successful
// logins and registrations produce a notification; every other kind is
// logged and discarded.
type Listener struct {
	notifier *Notifier
	log      *zap.Logger
}

func NewListener(notifier *Notifier, log *zap.Logger) *Listener {
	return &Listener{notifier: notifier, log: log}
}

// OnEvent handles a user lifecycle event.
func (l *Listener) OnEvent(e Event) {
	switch e.Kind {
	case KindLogin:
		l.log.Info("user login",
			zap.String("user_id", e.SubjectID),
			zap.String("client_id", e.ClientID),
			zap.String("ip", e.IPAddress),
		)
		l.notifier.Enqueue(LoginNotification(e))
	case KindRegister:
		l.log.Info("user registered",
			zap.String("user_id", e.SubjectID),
			zap.String("email", e.Details.Email),
		)
		l.notifier.Enqueue(RegistrationNotification(e))
	case KindLoginError:
		l.log.Warn("login failed",
			zap.String("user_id", e.SubjectID),
			zap.String("error", e.Error),
			zap.String("ip", e.IPAddress),
		)
	default:
		l.log.Debug("event ignored", zap.String("kind", string(e.Kind)))
	}
}

// OnAdminEvent handles an admin console operation. A user created through
// the admin console never raises a REGISTER event, so CREATE on a user
// resource synthesizes the registration notification the backend would
// otherwise miss.
func (l *Listener) OnAdminEvent(e AdminEvent) {
	if e.Operation != AdminCreate {
		return
	}
	userID := e.UserID()
	if userID == "" {
		return
	}
	l.log.Info("admin created user",
		zap.String("user_id", userID),
		zap.String("realm_id", e.RealmID),
	)
	l.notifier.Enqueue(AdminRegistrationNotification(e, userID))
}
