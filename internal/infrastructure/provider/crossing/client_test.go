package crossing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{URL: srv.URL, APIKey: "secret", Timeout: time.Second, Location: ist}, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC) }
	return c
}

var req = ports.CrossingRequest{ShipmentID: "SHP-1", VehicleNumber: "RJ14AB1234", ReferenceID: "ref-1"}

func TestFetchCrossingsParsesArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "RJ14AB1234", body["vehiclenumber"])
		assert.Equal(t, "ref-1", body["reference_id"])

		_, _ = w.Write([]byte(`[
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"Shahjahanpur","tollPlazaGeocode":"27.9993,76.4290","vehicleType":"VC10"},
			{"readerReadTime":"2025-10-03 16:05:10","tollPlazaName":"Kherki Daula","tollPlazaGeocode":"28.3952, 76.9870","vehicleType":"VC10"}
		]`))
	})

	res, err := c.FetchCrossings(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceReal, res.Source)
	assert.Empty(t, res.FallbackReason)
	require.Len(t, res.Crossings, 2)

	first := res.Crossings[0]
	assert.Equal(t, "SHP-1", first.ShipmentID)
	assert.Equal(t, "Shahjahanpur", first.PlazaName)
	assert.Equal(t, 27.9993, first.Lat)
	assert.Equal(t, 76.4290, first.Lng)
	assert.Equal(t, time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC), first.CrossedAt)
	assert.Equal(t, "VC10", first.VehicleClass)
	assert.Equal(t, domain.SourceReal, first.Source)
}

func TestFetchCrossingsWrappedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"Shahjahanpur","tollPlazaGeocode":"27.9993,76.4290"}]}`))
	})

	res, err := c.FetchCrossings(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceReal, res.Source)
	assert.Len(t, res.Crossings, 1)
}

func TestFetchCrossingsDropsMalformedRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"Good","tollPlazaGeocode":"27.9993,76.4290"},
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"NoGeo","tollPlazaGeocode":""},
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"Zero","tollPlazaGeocode":"0,0"},
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"NaN","tollPlazaGeocode":"NaN,76.1"},
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"Range","tollPlazaGeocode":"95.0,76.1"},
			{"readerReadTime":"yesterday","tollPlazaName":"BadTime","tollPlazaGeocode":"27.9,76.4"},
			{"readerReadTime":"2025-10-03 14:30:00","tollPlazaName":"","tollPlazaGeocode":"27.9,76.4"}
		]`))
	})

	res, err := c.FetchCrossings(t.Context(), req)
	require.NoError(t, err)
	require.Len(t, res.Crossings, 1)
	assert.Equal(t, "Good", res.Crossings[0].PlazaName)
}

func TestFetchCrossingsFallsBackOnFailure(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"invalid json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"wrong shape": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, handler)
			c.timeout = 100 * time.Millisecond

			res, err := c.FetchCrossings(t.Context(), req)
			require.NoError(t, err)
			assert.Equal(t, domain.SourceMock, res.Source)
			assert.NotEmpty(t, res.FallbackReason)
			require.Len(t, res.Crossings, len(DefaultFallback))
			for _, ev := range res.Crossings {
				assert.Equal(t, domain.SourceMock, ev.Source)
				assert.Equal(t, "SHP-1", ev.ShipmentID)
			}
			assert.Equal(t, "Jaipur Entry Toll", res.Crossings[0].PlazaName)
			assert.Equal(t, time.Date(2025, 10, 3, 6, 0, 0, 0, time.UTC), res.Crossings[0].CrossedAt)
		})
	}
}

func TestFetchCrossingsUnconfigured(t *testing.T) {
	c := NewClient(Config{}, zerolog.Nop())

	res, err := c.FetchCrossings(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceMock, res.Source)
	assert.Contains(t, res.FallbackReason, "not configured")
}
