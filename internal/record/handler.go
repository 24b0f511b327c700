package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"health-tracker/internal/auth"
)

const (
	maxJSONBodyBytes = 1 << 20
	dateLayout       = "2006-01-02"
	maxRecentLimit   = 100
)

// Store is the persistence surface the handler needs; *Repository
// implements it.
type Store interface {
	Upsert(ctx context.Context, userID string, input Input) (Record, error)
	GetByDate(ctx context.Context, userID, date string) (Record, error)
	GetRange(ctx context.Context, userID, startDate, endDate string) ([]Record, error)
	GetRecent(ctx context.Context, userID string, limit int) ([]Record, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	var input Input
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if input.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if !validDate(input.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.store.Upsert(r.Context(), identity.UserID, input)
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to save record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"record": rec})
}

func (h *Handler) GetByDate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := r.PathValue("date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.store.GetByDate(r.Context(), identity.UserID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusOK, map[string]any{"record": nil})
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"record": rec})
}

// List serves both range queries (?start=&end=) and recent queries
// (?limit=); limit wins when both are present, matching the original API.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query()

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > maxRecentLimit {
			writeError(w, http.StatusBadRequest, "limit is invalid")
			return
		}

		records, err := h.store.GetRecent(r.Context(), identity.UserID, limit)
		if err != nil {
			sentry.CaptureException(err)
			writeError(w, http.StatusInternalServerError, "failed to list records")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"records": records})
		return
	}

	start := query.Get("start")
	end := query.Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end dates are required")
		return
	}
	if !validDate(start) || !validDate(end) {
		writeError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	records, err := h.store.GetRange(r.Context(), identity.UserID, start, end)
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func validDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
