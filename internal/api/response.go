package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/models/dtos"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a request body into dst, treating malformed JSON
// as a validation failure.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}

// listEnvelope is the data shape of paginated list responses.
type listEnvelope struct {
	Items      any             `json:"items"`
	Pagination dtos.Pagination `json:"pagination"`
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryDate accepts YYYY-MM-DD or RFC3339 timestamps.
func queryDate(r *http.Request, key string) *time.Time {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

func analyticsFilterFromQuery(r *http.Request) dtos.AnalyticsFilter {
	return dtos.AnalyticsFilter{
		StartDate: queryDate(r, "startDate"),
		EndDate:   queryDate(r, "endDate"),
		State:     r.URL.Query().Get("state"),
		Theme:     r.URL.Query().Get("theme"),
		Status:    r.URL.Query().Get("status"),
	}
}
