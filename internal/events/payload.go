package events

// Backend notification paths, relative to each candidate endpoint.
const (
	LoginPath        = "/api/keycloak/login"
	RegistrationPath = "/api/keycloak/registration"
)

const unknownValue = "unknown"

// Notification is a delivery unit: a JSON body bound for a backend path with
// a deadline class derived from the event kind.
type Notification struct {
	Path string
	Kind Kind
	Body map[string]any
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

// LoginNotification builds the payload posted after a successful login.
func LoginNotification(e Event) Notification {
	return Notification{
		Path: LoginPath,
		Kind: KindLogin,
		Body: map[string]any{
			"eventType": "LOGIN",
			"userId":    e.SubjectID,
			"username":  orUnknown(e.Details.Username),
			"clientId":  e.ClientID,
			"ipAddress": e.IPAddress,
			"timestamp": e.TimestampMillis,
		},
	}
}

// RegistrationNotification builds the payload posted after self-registration.
func RegistrationNotification(e Event) Notification {
	return Notification{
		Path: RegistrationPath,
		Kind: KindRegister,
		Body: map[string]any{
			"eventType": "REGISTRATION",
			"userId":    e.SubjectID,
			"username":  orUnknown(e.Details.Username),
			"email":     orUnknown(e.Details.Email),
			"clientId":  e.ClientID,
			"ipAddress": e.IPAddress,
			"timestamp": e.TimestampMillis,
		},
	}
}

// AdminRegistrationNotification synthesizes a registration payload for a
// user created through the admin console. The admin event stream does not
// carry username or email, so both are reported as unknown; source marks the
// payload so the backend can tell the two flows apart.
func AdminRegistrationNotification(e AdminEvent, userID string) Notification {
	return Notification{
		Path: RegistrationPath,
		Kind: KindRegister,
		Body: map[string]any{
			"eventType": "REGISTRATION",
			"userId":    userID,
			"username":  unknownValue,
			"email":     unknownValue,
			"realmId":   e.RealmID,
			"source":    "admin_create",
			"timestamp": e.TimestampMillis,
		},
	}
}
