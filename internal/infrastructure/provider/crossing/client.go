// Package crossing is the HTTP client for the toll-gantry crossing provider.
package crossing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/provider"
)

// FallbackCrossing is one synthetic record returned when the provider is unreachable.
// Offset is relative to the time of the failed call.
type FallbackCrossing struct {
	PlazaName    string        `yaml:"plaza_name" validate:"required"`
	Lat          float64       `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng          float64       `yaml:"lng" validate:"gte=-180,lte=180"`
	Offset       time.Duration `yaml:"offset"`
	VehicleClass string        `yaml:"vehicle_type"`
}

// DefaultFallback is the synthetic route used when no rules file overrides it.
// Every plaza name here is on the default deny-list so none is ever persisted.
var DefaultFallback = []FallbackCrossing{
	{PlazaName: "Jaipur Entry Toll", Lat: 26.9124, Lng: 75.7873, Offset: -6 * time.Hour, VehicleClass: "VC10"},
	{PlazaName: "Delhi Border Toll", Lat: 28.4595, Lng: 77.0266, Offset: -4 * time.Hour, VehicleClass: "VC10"},
	{PlazaName: "Mumbai Expressway Toll", Lat: 18.8894, Lng: 73.3103, Offset: -2 * time.Hour, VehicleClass: "VC10"},
}

type Config struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	Location *time.Location
	Fallback []FallbackCrossing
}

type Client struct {
	http     *http.Client
	url      string
	apiKey   string
	timeout  time.Duration
	loc      *time.Location
	fallback []FallbackCrossing
	now      func() time.Time
	log      zerolog.Logger
}

var _ ports.CrossingProvider = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = provider.DefaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = provider.LoadLocation("")
	}
	if len(cfg.Fallback) == 0 {
		cfg.Fallback = DefaultFallback
	}
	return &Client{
		http:     &http.Client{},
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		loc:      cfg.Location,
		fallback: cfg.Fallback,
		now:      time.Now,
		log:      log.With().Str("provider", "crossing").Logger(),
	}
}

type fetchRequest struct {
	VehicleNumber string `json:"vehiclenumber"`
	ReferenceID   string `json:"reference_id"`
}

// FetchCrossings posts the vehicle number and parses the crossing list. Any
// failure yields the synthetic fallback set with the failure as the reason.
func (c *Client) FetchCrossings(ctx context.Context, req ports.CrossingRequest) (*ports.CrossingResult, error) {
	events, err := c.fetch(ctx, req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("shipment_id", req.ShipmentID).
			Str("reference_id", req.ReferenceID).
			Msg("crossing provider unavailable, using fallback data")
		return &ports.CrossingResult{
			Crossings:      c.synthetic(req.ShipmentID),
			Source:         domain.SourceMock,
			FallbackReason: err.Error(),
		}, nil
	}
	return &ports.CrossingResult{Crossings: events, Source: domain.SourceReal}, nil
}

func (c *Client) fetch(ctx context.Context, req ports.CrossingRequest) ([]domain.CrossingEvent, error) {
	if c.url == "" {
		return nil, fmt.Errorf("crossing provider url not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := provider.PostJSON(ctx, c.http, c.url, c.apiKey, fetchRequest{
		VehicleNumber: req.VehicleNumber,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return nil, err
	}
	root, err := provider.ParseBody(body)
	if err != nil {
		return nil, err
	}

	list := root
	if !root.IsArray() {
		list = root.Get("response")
		if !list.IsArray() {
			return nil, fmt.Errorf("unexpected crossing payload shape")
		}
	}

	var (
		events  []domain.CrossingEvent
		dropped int
	)
	list.ForEach(func(_, rec gjson.Result) bool {
		ev, ok := c.parseRecord(req.ShipmentID, rec)
		if !ok {
			dropped++
			return true
		}
		events = append(events, ev)
		return true
	})
	if dropped > 0 {
		c.log.Debug().Str("shipment_id", req.ShipmentID).Int("dropped", dropped).Msg("skipped malformed crossing records")
	}
	return events, nil
}

func (c *Client) parseRecord(shipmentID string, rec gjson.Result) (domain.CrossingEvent, bool) {
	name := strings.TrimSpace(rec.Get("tollPlazaName").String())
	if name == "" {
		return domain.CrossingEvent{}, false
	}
	lat, lng, ok := provider.SplitLatLng(rec.Get("tollPlazaGeocode").String())
	if !ok || !domain.ValidCoordinates(lat, lng) {
		return domain.CrossingEvent{}, false
	}
	at, ok := provider.ParseTime(rec.Get("readerReadTime").String(), c.loc)
	if !ok {
		return domain.CrossingEvent{}, false
	}
	return domain.CrossingEvent{
		ShipmentID:   shipmentID,
		PlazaName:    name,
		Lat:          lat,
		Lng:          lng,
		CrossedAt:    at,
		VehicleClass: strings.TrimSpace(rec.Get("vehicleType").String()),
		Source:       domain.SourceReal,
	}, true
}

func (c *Client) synthetic(shipmentID string) []domain.CrossingEvent {
	now := c.now().UTC().Truncate(time.Second)
	out := make([]domain.CrossingEvent, 0, len(c.fallback))
	for _, f := range c.fallback {
		out = append(out, domain.CrossingEvent{
			ShipmentID:   shipmentID,
			PlazaName:    f.PlazaName,
			Lat:          f.Lat,
			Lng:          f.Lng,
			CrossedAt:    now.Add(f.Offset),
			VehicleClass: f.VehicleClass,
			Source:       domain.SourceMock,
		})
	}
	return out
}
