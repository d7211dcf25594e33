package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailJSConfig holds the credentials of an EmailJS account and template.
type EmailJSConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// EmailJS sends codes through the EmailJS REST API. The template receives
// the email, passcode and expiration_time parameters.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
}

func NewEmailJS(cfg EmailJSConfig, client *http.Client) *EmailJS {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &EmailJS{cfg: cfg, client: client}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) SendVerification(ctx context.Context, m Message) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"email":           m.Email,
			"name":            m.Name,
			"passcode":        m.Code,
			"expiration_time": m.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"),
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs send failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
