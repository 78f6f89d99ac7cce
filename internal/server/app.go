package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountstatusdomain "github.com/Harindu7/Keycloak/internal/accountstatus/domain"
	organizationdomain "github.com/Harindu7/Keycloak/internal/organization/domain"
)

// Home routes a returning visitor by their provisioning state; anonymous
// visitors get the public landing payload.
func (s *Server) Home(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"service": s.cfg.AppName,
			"login":   "/auth/login",
		})
		return
	}

	sess, err := s.store.Find(c.Request.Context(), token)
	if err != nil {
		s.sessions.Clear(c)
		c.JSON(http.StatusOK, gin.H{
			"service": s.cfg.AppName,
			"login":   "/auth/login",
		})
		return
	}

	route, err := s.accountSvc.ResolveRoute(c.Request.Context(), sess.SubjectID, sess.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, string(route))
}

// LoginPage is where unauthenticated users land; it only points at the
// OIDC entry point.
func (s *Server) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"login":    "/auth/login",
		"register": "/auth/register",
	})
}

// Dashboard is the landing page once organization setup is done. Users who
// have not finished setup are sent back to it.
func (s *Server) Dashboard(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	status, err := s.accountSvc.FindBySubjectID(c.Request.Context(), sess.SubjectID)
	if err != nil || !status.OrgSetupCompleted {
		c.Redirect(http.StatusFound, string(accountstatusdomain.RouteOrganizationSetup))
		return
	}

	resp := gin.H{
		"username": sess.Username,
		"email":    sess.Email,
	}
	if status.OrganizationID != nil {
		if org, err := s.orgSvc.GetByID(c.Request.Context(), status.OrganizationID.String()); err == nil {
			resp["organization"] = org
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrganizationSetup serves the setup form data. A user who already
// finished setup is bounced to the dashboard instead of seeing the form
// again.
func (s *Server) GetOrganizationSetup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if s.accountSvc.IsComplete(c.Request.Context(), sess.SubjectID) {
		c.Redirect(http.StatusFound, string(accountstatusdomain.RouteDashboard))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": sess.Username,
		"email":    sess.Email,
	})
}

// PostOrganizationSetup creates the organization and completes the
// provisioning state machine for the subject.
func (s *Server) PostOrganizationSetup(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req organizationdomain.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	org, err := s.orgSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, err := snowflake.ParseString(org.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if _, err := s.accountSvc.CompleteSetup(c.Request.Context(), sess.SubjectID, orgID); err != nil {
		// The organization exists but the subject never reached PendingSetup.
		s.log.Error("complete setup",
			zap.String("subject_id", sess.SubjectID),
			zap.String("organization_id", org.ID),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"organization": org,
		"redirect":     string(accountstatusdomain.RouteDashboard),
	})
}
