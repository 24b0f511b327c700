package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"health-tracker/internal/observability"
)

type fakeStore struct {
	subs []Subscription
}

func (s *fakeStore) Save(_ context.Context, userID, endpoint, p256dh, authKey string, userAgent *string) (Subscription, error) {
	sub := Subscription{
		ID:        "sub-" + endpoint,
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      authKey,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}
	s.subs = append(s.subs, sub)
	return sub, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID string) ([]Subscription, error) {
	out := make([]Subscription, 0)
	for _, sub := range s.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(context.Context) ([]Subscription, error) {
	return s.subs, nil
}

func (s *fakeStore) Delete(_ context.Context, userID, endpoint string) error {
	kept := s.subs[:0]
	for _, sub := range s.subs {
		if sub.UserID != userID || sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	s.subs = kept
	return nil
}

type flakySender struct {
	failEndpoint string
	sent         int
}

func (s *flakySender) Send(_ context.Context, sub Subscription, _ Notification) error {
	if sub.Endpoint == s.failEndpoint {
		return errors.New("gone")
	}
	s.sent++
	return nil
}

func runReminder(handler *ReminderHandler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/internal/reminders/run", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.Handle(recorder, req)
	return recorder
}

func TestReminder_HiddenWithoutCronSecret(t *testing.T) {
	handler := NewReminderHandler(&fakeStore{}, &flakySender{}, observability.NewLogger(), "")

	recorder := runReminder(handler, "Bearer anything")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestReminder_RejectsBadSecret(t *testing.T) {
	handler := NewReminderHandler(&fakeStore{}, &flakySender{}, observability.NewLogger(), "cron-secret")

	require.Equal(t, http.StatusUnauthorized, runReminder(handler, "").Code)
	require.Equal(t, http.StatusUnauthorized, runReminder(handler, "Bearer wrong").Code)
	require.Equal(t, http.StatusUnauthorized, runReminder(handler, "Basic cron-secret").Code)
}

func TestReminder_DispatchesToAllSubscriptions(t *testing.T) {
	store := &fakeStore{}
	for _, endpoint := range []string{"https://push.example/a", "https://push.example/b", "https://push.example/c"} {
		_, err := store.Save(context.Background(), "u1", endpoint, "p", "a", nil)
		require.NoError(t, err)
	}

	sender := &flakySender{failEndpoint: "https://push.example/b"}
	handler := NewReminderHandler(store, sender, observability.NewLogger(), "cron-secret")

	recorder := runReminder(handler, "Bearer cron-secret")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Status string `json:"status"`
		Sent   int    `json:"sent"`
		Failed int    `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, 2, body.Sent)
	require.Equal(t, 1, body.Failed)
	require.Equal(t, 2, sender.sent)
}
