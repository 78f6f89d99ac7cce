package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// eventNotification mirrors the JSON the event pipeline posts. Unknown
// fields are ignored so either side can grow independently.
type eventNotification struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ClientID  string `json:"clientId"`
	IPAddress string `json:"ipAddress"`
	RealmID   string `json:"realmId"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// ReceiveLoginEvent accepts a login notification. The sink acknowledges
// immediately; there is deliberately no artificial processing delay here.
func (s *Server) ReceiveLoginEvent(c *gin.Context) {
	var n eventNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	s.log.Info("login event received",
		zap.String("user_id", n.UserID),
		zap.String("username", n.Username),
		zap.String("client_id", n.ClientID),
		zap.String("ip", n.IPAddress),
		zap.Int64("timestamp", n.Timestamp),
	)
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// ReceiveRegistrationEvent accepts a registration notification, both from
// self-registration and the admin-created synthesis.
func (s *Server) ReceiveRegistrationEvent(c *gin.Context) {
	var n eventNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	s.log.Info("registration event received",
		zap.String("user_id", n.UserID),
		zap.String("username", n.Username),
		zap.String("email", n.Email),
		zap.String("source", n.Source),
		zap.String("realm_id", n.RealmID),
		zap.Int64("timestamp", n.Timestamp),
	)
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
