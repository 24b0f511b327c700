package report

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"health-tracker/internal/auth"
	"health-tracker/internal/record"
)

// RangeStore is the slice of the record store reports need.
type RangeStore interface {
	GetRange(ctx context.Context, userID, startDate, endDate string) ([]record.Record, error)
}

type Handler struct {
	store RangeStore
}

func NewHandler(store RangeStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, WeekPeriod)
}

func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, MonthPeriod)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, periodOf func(time.Time) Period) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	target := time.Now().UTC()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		target = parsed
	}

	period := periodOf(target)

	records, err := h.store.GetRange(r.Context(), identity.UserID, period.Start, period.End)
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"stats":   Compute(records),
		"records": records,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
