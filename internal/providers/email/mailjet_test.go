package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMailjetSend(t *testing.T) {
	var got mailjetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewMailjet(MailjetConfig{APIKey: "key", APISecret: "secret", FromEmail: "no-reply@example.com", FromName: "Companion"})
	p.sendURL = srv.URL

	err := p.Send(context.Background(), Message{
		To:       "jane@example.com",
		Subject:  "Verify your email",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(got.Messages))
	}
	m := got.Messages[0]
	if m.From.Email != "no-reply@example.com" || m.To[0].Email != "jane@example.com" {
		t.Fatalf("unexpected addressing: %+v", m)
	}
	if m.Subject != "Verify your email" || m.TextPart != "plain" || m.HTMLPart != "<p>html</p>" {
		t.Fatalf("unexpected content: %+v", m)
	}
}

func TestMailjetSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ErrorMessage":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewMailjet(MailjetConfig{APIKey: "k", APISecret: "s", FromEmail: "no-reply@example.com"})
	p.sendURL = srv.URL

	if err := p.Send(context.Background(), Message{To: "jane@example.com"}); err == nil {
		t.Fatalf("expected error on rejected send")
	}
}
