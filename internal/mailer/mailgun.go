// Package mailer sends transactional email through the Mailgun HTTP API.
package mailer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiURL = "https://api.mailgun.net/v3/%s/messages"

// Mailgun is a minimal client for the messages endpoint.  An empty
// domain disables sending, which lets local setups run without an
// account; Send then just logs nothing and reports success upstream.
type Mailgun struct {
	domain string
	apiKey string
	client *http.Client
}

func New(domain, apiKey string) *Mailgun {
	return &Mailgun{
		domain: domain,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a sending domain is configured.
func (m *Mailgun) Enabled() bool { return m.domain != "" && m.apiKey != "" }

// Send posts a plain-text message (with optional HTML alternative) to
// the Mailgun messages endpoint using basic auth.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if !m.Enabled() {
		return nil
	}
	form := url.Values{
		"from":    {fmt.Sprintf("Our API <no-reply@%s>", m.domain)},
		"to":      {to},
		"subject": {subject},
		"text":    {text},
	}
	if html != "" {
		form.Set("html", html)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf(apiURL, m.domain), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", m.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailgun: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
