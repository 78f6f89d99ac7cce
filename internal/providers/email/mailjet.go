package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const mailjetSendURL = "https://api.mailjet.com/v3.1/send"

type MailjetConfig struct {
	APIKey    string
	APISecret string
	FromEmail string
	FromName  string
}

// MailjetProvider sends through the Mailjet v3.1 send API.
type MailjetProvider struct {
	cfg     MailjetConfig
	sendURL string
	http    *http.Client
}

func NewMailjet(cfg MailjetConfig) *MailjetProvider {
	return &MailjetProvider{cfg: cfg, sendURL: mailjetSendURL, http: &http.Client{}}
}

type mailjetParty struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetParty   `json:"From"`
	To       []mailjetParty `json:"To"`
	Subject  string         `json:"Subject"`
	TextPart string         `json:"TextPart,omitempty"`
	HTMLPart string         `json:"HTMLPart,omitempty"`
}

type mailjetRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

func (p *MailjetProvider) Send(ctx context.Context, msg Message) error {
	payload := mailjetRequest{Messages: []mailjetMessage{{
		From:     mailjetParty{Email: p.cfg.FromEmail, Name: p.cfg.FromName},
		To:       []mailjetParty{{Email: msg.To, Name: msg.ToName}},
		Subject:  msg.Subject,
		TextPart: msg.TextBody,
		HTMLPart: msg.HTMLBody,
	}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email: encode mailjet request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: build mailjet request: %w", err)
	}
	req.SetBasicAuth(p.cfg.APIKey, p.cfg.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("email: mailjet send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email: mailjet send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
