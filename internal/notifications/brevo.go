// Package notifications sends the owner email alerts through Brevo.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var ErrNoRecipient = errors.New("brevo: message has no recipient")

// APIError is a non-2xx answer from Brevo.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brevo: status %d: %s", e.Status, e.Body)
}

// Message is one transactional email.
type Message struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	HTML    string
	Tags    []string
}

type BrevoClient struct {
	apiKey     string
	sender     brevoContact
	sandbox    bool
	endpoint   string
	httpClient *http.Client
}

// NewBrevoClient returns nil when the key or the sender is missing, which
// callers treat as "mail disabled".
func NewBrevoClient(apiKey, senderEmail, senderName string, sandbox bool) *BrevoClient {
	apiKey = strings.TrimSpace(apiKey)
	senderEmail = strings.TrimSpace(senderEmail)
	if apiKey == "" || senderEmail == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:     apiKey,
		sender:     brevoContact{Email: senderEmail, Name: senderName},
		sandbox:    sandbox,
		endpoint:   defaultBrevoEndpoint,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *BrevoClient) WithEndpoint(endpoint string) *BrevoClient {
	c.endpoint = endpoint
	return c
}

// SendTestimonialPending tells the site owner a visitor left a testimonial
// that waits for approval. The visitor is not emailed.
func (c *BrevoClient) SendTestimonialPending(ctx context.Context, ownerEmail string, t portfolio.Testimonial) (string, error) {
	html, err := buildTestimonialPendingHTML(t)
	if err != nil {
		return "", fmt.Errorf("render testimonial email: %w", err)
	}
	return c.Send(ctx, Message{
		To:      ownerEmail,
		Subject: fmt.Sprintf("New testimonial from %s awaiting approval", t.ClientName),
		HTML:    html,
		Tags:    []string{"testimonial-pending"},
	})
}

// Send posts msg and returns the Brevo message id.
func (c *BrevoClient) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	if strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.HTML) == "" {
		return "", errors.New("brevo: message needs a subject and a body")
	}

	body := brevoSendRequest{
		Sender:      c.sender,
		To:          []brevoContact{{Email: msg.To, Name: msg.ToName}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		Tags:        msg.Tags,
	}
	if msg.ReplyTo != "" {
		body.ReplyTo = &brevoContact{Email: msg.ReplyTo}
	}
	if c.sandbox {
		body.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

type brevoSendRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	ReplyTo     *brevoContact     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Tags        []string          `json:"tags,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
