// Package provider holds the HTTP plumbing shared by the location provider clients.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 12 * time.Second
	// LocalTimeLayout is the naive timestamp format providers emit.
	LocalTimeLayout = "2006-01-02 15:04:05"

	maxBodyBytes = 4 << 20
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider status %d", e.Code)
	}
	return fmt.Sprintf("provider status %d: %s", e.Code, e.Body)
}

// PostJSON sends payload as JSON with an optional bearer key and returns the
// response body. Non-2xx responses become *StatusError.
func PostJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Code: res.StatusCode, Body: snippet}
	}
	return data, nil
}

// ParseBody validates the payload is JSON and returns its root.
func ParseBody(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("response is not valid JSON")
	}
	return gjson.ParseBytes(data), nil
}

// Float reads a number that may be sent as a JSON number or a numeric string.
func Float(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		return v, err == nil
	default:
		return 0, false
	}
}

// SplitLatLng parses a "lat,lng" string.
func SplitLatLng(s string) (float64, float64, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// ParseTime accepts RFC 3339 or the naive local layout interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(LocalTimeLayout, s, loc); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// LoadLocation resolves the provider time zone, falling back to a fixed
// +05:30 zone when the tz database is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Asia/Kolkata"
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}
