package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fadebook/internal/events"
)

func TestNewBrevoClientMissingConfig(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "from@shop.com", "Shop", "owner@shop.com", "Owner"))
	assert.Nil(t, NewBrevoClient("key", "", "Shop", "owner@shop.com", "Owner"))
	assert.Nil(t, NewBrevoClient("key", "from@shop.com", "Shop", "", "Owner"))
	assert.NotNil(t, NewBrevoClient("key", "from@shop.com", "Shop", "owner@shop.com", "Owner"))
}

func TestSendBookingNotification(t *testing.T) {
	var got brevoSendRequest
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"msg-1"}`))
	}))
	defer server.Close()

	client := NewBrevoClient("test-key", "from@shop.com", "Shop", "owner@shop.com", "Owner")
	client.endpoint = server.URL

	err := client.SendBookingNotification(context.Background(), "New booking", "Date: 2026-03-02\n")
	require.NoError(t, err)

	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "from@shop.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "owner@shop.com", got.To[0].Email)
	assert.Equal(t, "New booking", got.Subject)
	assert.Equal(t, "Date: 2026-03-02\n", got.TextContent)
}

func TestSendBookingNotificationServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewBrevoClient("bad-key", "from@shop.com", "Shop", "owner@shop.com", "Owner")
	client.endpoint = server.URL

	err := client.SendBookingNotification(context.Background(), "New booking", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestBookingSubjectAndBody(t *testing.T) {
	payload := events.BookingEventPayload{
		BookingID:    7,
		Date:         "2026-03-02",
		StartTime:    "10:00",
		EndTime:      "10:40",
		ServiceName:  "Taper",
		Extras:       []string{"Beard Trim"},
		Duration:     40,
		CustomerName: "Ivan",
		Phone:        "+79990001122",
		Note:         "side entrance",
		Status:       "pending",
	}

	subject := BookingSubject(events.EventBookingCreated, payload)
	assert.Equal(t, "New booking: 2026-03-02 10:00 (Ivan)", subject)

	body := BookingBody(payload)
	assert.Contains(t, body, "Time: 10:00 - 10:40 (40 min)")
	assert.Contains(t, body, "Extras: Beard Trim")
	assert.Contains(t, body, "Note: side entrance")
	assert.Contains(t, body, "Booking #7")

	// Unknown event types still produce a usable subject.
	subject = BookingSubject("booking_sparkled", payload)
	assert.Contains(t, subject, "Booking update")
}
