// Package events captures Keycloak lifecycle events and forwards a compact
// notification to the backend of record. Delivery is best-effort and
// fire-and-forget: a notification that cannot be delivered is dropped, never
// queued durably and never allowed to fail the authentication path that
// raised it.
package events

import "strings"

// Kind enumerates the user event types raised by Keycloak that this service
// understands.
type Kind string

const (
	KindLogin          Kind = "LOGIN"
	KindLogout         Kind = "LOGOUT"
	KindRegister       Kind = "REGISTER"
	KindLoginError     Kind = "LOGIN_ERROR"
	KindUpdatePassword Kind = "UPDATE_PASSWORD"
	KindUpdateProfile  Kind = "UPDATE_PROFILE"
	KindVerifyEmail    Kind = "VERIFY_EMAIL"
	KindResetPassword  Kind = "RESET_PASSWORD"
)

// AdminOperation enumerates admin console operations.
type AdminOperation string

const (
	AdminCreate AdminOperation = "CREATE"
	AdminUpdate AdminOperation = "UPDATE"
	AdminDelete AdminOperation = "DELETE"
	AdminAction AdminOperation = "ACTION"
)

// Details carries the well-known event detail fields with named accessors
// plus a residual map for anything Keycloak adds later.
type Details struct {
	Username         string
	Email            string
	FirstName        string
	LastName         string
	AuthMethod       string
	IdentityProvider string
	Reason           string
	UserAgent        string
	Extra            map[string]string
}

// DetailsFromMap lifts the string-keyed detail map Keycloak sends on the
// wire into the typed Details. Keys without a named field land in Extra.
func DetailsFromMap(m map[string]string) Details {
	var d Details
	for k, v := range m {
		switch k {
		case "username":
			d.Username = v
		case "email":
			d.Email = v
		case "first_name":
			d.FirstName = v
		case "last_name":
			d.LastName = v
		case "auth_method":
			d.AuthMethod = v
		case "identity_provider":
			d.IdentityProvider = v
		case "reason":
			d.Reason = v
		case "user_agent":
			d.UserAgent = v
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]string)
			}
			d.Extra[k] = v
		}
	}
	return d
}

// Event is a user lifecycle event. It is transient; nothing here is ever
// persisted.
type Event struct {
	Kind            Kind
	SubjectID       string
	ClientID        string
	IPAddress       string
	RealmID         string
	SessionID       string
	Error           string
	TimestampMillis int64
	Details         Details
}

// AdminEvent is an administrative operation event.
type AdminEvent struct {
	Operation       AdminOperation
	ResourceType    string
	ResourcePath    string
	RealmID         string
	TimestampMillis int64
	Representation  string
}

const userResourcePrefix = "users/"

// UserID extracts the user id from a users/{id} resource path, or "" when
// the event does not target a user resource.
func (e AdminEvent) UserID() string {
	if e.ResourceType != "USER" {
		return ""
	}
	if !strings.HasPrefix(e.ResourcePath, userResourcePrefix) {
		return ""
	}
	return strings.TrimPrefix(e.ResourcePath, userResourcePrefix)
}
