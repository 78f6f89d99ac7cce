package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harindu7/Keycloak/internal/events"
)

// EventSink receives decoded Keycloak events. Satisfied by events.Listener.
type EventSink interface {
	OnEvent(events.Event)
	OnAdminEvent(events.AdminEvent)
}

// keycloakEvent is the JSON shape Keycloak's webhook listener posts for
// user lifecycle events.
type keycloakEvent struct {
	Type      string            `json:"type" binding:"required"`
	UserID    string            `json:"userId"`
	ClientID  string            `json:"clientId"`
	IPAddress string            `json:"ipAddress"`
	RealmID   string            `json:"realmId"`
	SessionID string            `json:"sessionId"`
	Error     string            `json:"error"`
	Time      int64             `json:"time"`
	Details   map[string]string `json:"details"`
}

// keycloakAdminEvent is the JSON shape for admin console operations.
type keycloakAdminEvent struct {
	OperationType  string `json:"operationType" binding:"required"`
	ResourceType   string `json:"resourceType"`
	ResourcePath   string `json:"resourcePath"`
	RealmID        string `json:"realmId"`
	Time           int64  `json:"time"`
	Representation string `json:"representation"`
}

// IngestEvent accepts a user lifecycle event from the identity provider and
// hands it to the delivery pipeline. The pipeline is asynchronous, so the
// response only acknowledges receipt.
func (s *Server) IngestEvent(c *gin.Context) {
	var in keycloakEvent
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	s.sink.OnEvent(events.Event{
		Kind:            events.Kind(in.Type),
		SubjectID:       in.UserID,
		ClientID:        in.ClientID,
		IPAddress:       in.IPAddress,
		RealmID:         in.RealmID,
		SessionID:       in.SessionID,
		Error:           in.Error,
		TimestampMillis: in.Time,
		Details:         events.DetailsFromMap(in.Details),
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// IngestAdminEvent accepts an admin console operation event.
func (s *Server) IngestAdminEvent(c *gin.Context) {
	var in keycloakAdminEvent
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	s.sink.OnAdminEvent(events.AdminEvent{
		Operation:       events.AdminOperation(in.OperationType),
		ResourceType:    in.ResourceType,
		ResourcePath:    in.ResourcePath,
		RealmID:         in.RealmID,
		TimestampMillis: in.Time,
		Representation:  in.Representation,
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
