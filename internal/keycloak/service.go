package keycloak

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/config"
	"github.com/Harindu7/Keycloak/internal/providers/email"
	"github.com/Harindu7/Keycloak/internal/verification"
)

var (
	ErrEmailTaken    = errors.New("keycloak: email already registered")
	ErrMissingFields = errors.New("keycloak: username, email and password are required")
	ErrInvalidToken  = verification.ErrInvalidToken
	ErrTokenExpired  = verification.ErrTokenExpired
)

// RegisterRequest carries a self-service signup.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserAPI is the slice of the admin client the registration service needs.
type UserAPI interface {
	CreateUser(ctx context.Context, user User) (string, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	SetPassword(ctx context.Context, id, password string) error
	SetEmailVerified(ctx context.Context, id string, verified bool) error
	DeleteUser(ctx context.Context, id string) error
}

// Service registers users in the realm and runs the email verification
// round trip.
type Service struct {
	api       UserAPI
	mail      email.Provider
	codec     *verification.Codec
	verifyURL string
	log       *zap.Logger
}

func NewService(api UserAPI, mail email.Provider, codec *verification.Codec, cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		api:       api,
		mail:      mail,
		codec:     codec,
		verifyURL: cfg.Verification.VerifyURL,
		log:       log,
	}
}

// RegisterUser creates the user, sets the password and sends the
// verification email. The user is created unverified; a failed password set
// rolls the user back so the signup can be retried.
func (s *Service) RegisterUser(ctx context.Context, req RegisterRequest) (User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return User{}, ErrMissingFields
	}

	if _, err := s.api.FindUserByEmail(ctx, req.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	id, err := s.api.CreateUser(ctx, User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Enabled:   true,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	if err := s.api.SetPassword(ctx, id, req.Password); err != nil {
		s.log.Error("set password after create", zap.String("user_id", id), zap.Error(err))
		if delErr := s.api.DeleteUser(ctx, id); delErr != nil {
			s.log.Error("rollback created user", zap.String("user_id", id), zap.Error(delErr))
		}
		return User{}, err
	}

	user := User{ID: id, Username: req.Username, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName, Enabled: true}
	if err := s.SendVerificationEmail(ctx, user); err != nil {
		// The account is usable; verification can be re-sent later.
		s.log.Warn("send verification email", zap.String("user_id", id), zap.Error(err))
	}
	return user, nil
}

// SendVerificationEmail issues a fresh token for the user and mails the
// verification link.
func (s *Service) SendVerificationEmail(ctx context.Context, user User) error {
	token := s.codec.Issue(user.ID)
	link := s.verifyURL + "?token=" + url.QueryEscape(token)

	msg, err := buildVerificationMessage(user, link)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("keycloak: send verification email: %w", err)
	}
	s.log.Info("verification email sent", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// VerifyEmail redeems a token from a verification link and marks the user
// verified. Invalid and expired tokens come back as ErrInvalidToken and
// ErrTokenExpired.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.codec.Redeem(token)
	if err != nil {
		return err
	}
	if err := s.api.SetEmailVerified(ctx, userID, true); err != nil {
		return err
	}
	s.log.Info("email verified", zap.String("user_id", userID))
	return nil
}

var verificationHTML = template.Must(template.New("verify").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Thanks for signing up. Confirm your email address to finish creating your account.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 18px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Verify email</a></p>
  <p>Or open this link: {{.Link}}</p>
  <p>The link expires in 24 hours. If you did not sign up, ignore this email.</p>
</body>
</html>`))

func buildVerificationMessage(user User, link string) (email.Message, error) {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	var html bytes.Buffer
	if err := verificationHTML.Execute(&html, struct {
		Name string
		Link string
	}{Name: name, Link: link}); err != nil {
		return email.Message{}, fmt.Errorf("keycloak: render verification email: %w", err)
	}
	text := fmt.Sprintf("Hi %s,\n\nConfirm your email address to finish creating your account:\n%s\n\nThe link expires in 24 hours. If you did not sign up, ignore this email.\n", name, link)
	return email.Message{
		To:       user.Email,
		ToName:   name,
		Subject:  "Verify your email",
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
