package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-backend/internal/portfolio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrevoClientNeedsKeyAndSender(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "site@example.com", "", false))
	assert.Nil(t, NewBrevoClient("key", " ", "", false))
	assert.NotNil(t, NewBrevoClient("key", "site@example.com", "", false))
}

func TestSendTestimonialPending(t *testing.T) {
	var got brevoSendRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<m1@brevo>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "site@example.com", "Portfolio", true).WithEndpoint(srv.URL)
	id, err := c.SendTestimonialPending(context.Background(), "owner@example.com", portfolio.Testimonial{
		ClientName: "Bo <script>",
		Company:    "Acme",
		Role:       "CTO",
		Message:    "Great work overall.",
		Rating:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, "<m1@brevo>", id)
	assert.Equal(t, "key", apiKey)
	assert.Equal(t, "owner@example.com", got.To[0].Email)
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
	assert.Contains(t, got.HTMLContent, "★★★★☆")
	assert.Contains(t, got.HTMLContent, "Bo &lt;script&gt;")
	assert.NotContains(t, got.HTMLContent, "Project:")
	assert.Equal(t, []string{"testimonial-pending"}, got.Tags)
	assert.Nil(t, got.ReplyTo)
}

func TestSendFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "site@example.com", "", false).WithEndpoint(srv.URL)
	_, err := c.SendTestimonialPending(context.Background(), "owner@example.com", portfolio.Testimonial{ClientName: "Bo"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Body, "unauthorized")
}

func TestSendNeedsRecipient(t *testing.T) {
	c := NewBrevoClient("key", "site@example.com", "", false)
	_, err := c.Send(context.Background(), Message{Subject: "hi", HTML: "<p>hi</p>"})
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = c.SendTestimonialPending(context.Background(), "", portfolio.Testimonial{ClientName: "Bo"})
	assert.ErrorIs(t, err, ErrNoRecipient)
}
