package push

import (
	"context"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"

	"health-tracker/internal/observability"
)

// Sender delivers one notification to one subscription. The Web Push
// transport (payload encryption included) lives behind this seam.
type Sender interface {
	Send(ctx context.Context, sub Subscription, note Notification) error
}

// LogSender records deliveries instead of performing them.
type LogSender struct {
	logger *observability.Logger
}

func NewLogSender(logger *observability.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, sub Subscription, note Notification) error {
	s.logger.Info("push_notification", map[string]any{
		"user_id":  sub.UserID,
		"endpoint": sub.Endpoint,
		"title":    note.Title,
	})
	return nil
}

// ReminderHandler dispatches the daily record reminder to every stored
// subscription. It is invoked by an external scheduler and gated by a
// bearer cron secret; with no secret configured the route plays dead.
type ReminderHandler struct {
	store  Store
	sender Sender
	logger *observability.Logger

	cronSecret string
}

func NewReminderHandler(store Store, sender Sender, logger *observability.Logger, cronSecret string) *ReminderHandler {
	return &ReminderHandler{
		store:      store,
		sender:     sender,
		logger:     logger,
		cronSecret: strings.TrimSpace(cronSecret),
	}
}

func (h *ReminderHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.cronSecret == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) != h.cronSecret {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subs, err := h.store.ListAll(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	note := Notification{
		Title: "Daily record reminder",
		Body:  "Don't forget to log today's health data!",
	}

	var sent, failed int
	for _, sub := range subs {
		if err := h.sender.Send(r.Context(), sub, note); err != nil {
			failed++
			h.logger.Warn("push_send_failed", map[string]any{
				"endpoint": sub.Endpoint,
				"error":    err.Error(),
			})
			continue
		}
		sent++
	}

	h.logger.Info("reminders_dispatched", map[string]any{
		"subscriptions": len(subs),
		"sent":          sent,
		"failed":        failed,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"sent":   sent,
		"failed": failed,
	})
}
