// Package cellular is the HTTP client for the SIM-based location provider.
package cellular

import (
	"context"
	"errors"
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

const providerName = "cellular"

type Config struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	Location *time.Location
}

type Client struct {
	http    *http.Client
	url     string
	apiKey  string
	timeout time.Duration
	loc     *time.Location
	log     zerolog.Logger
}

var _ ports.CellularProvider = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = provider.DefaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = provider.LoadLocation("")
	}
	return &Client{
		http:    &http.Client{},
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		loc:     cfg.Location,
		log:     log.With().Str("provider", providerName).Logger(),
	}
}

type fetchRequest struct {
	ShipmentID string `json:"shipment_id"`
	Phone      string `json:"phone_number"`
}

// FetchPings returns the current fix and recent history for the registered SIM.
// Every failure is a *domain.TransportError; a 404 additionally matches
// domain.ErrNotRegistered because the provider has no record of the SIM.
func (c *Client) FetchPings(ctx context.Context, req ports.PingRequest) (*ports.PingResult, error) {
	res, err := c.fetch(ctx, req)
	if err != nil {
		c.log.Warn().Err(err).Str("shipment_id", req.ShipmentID).Msg("cellular fetch failed")
		return nil, &domain.TransportError{Provider: providerName, Err: err}
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, req ports.PingRequest) (*ports.PingResult, error) {
	if c.url == "" {
		return nil, fmt.Errorf("cellular provider url not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := provider.PostJSON(ctx, c.http, c.url, c.apiKey, fetchRequest{
		ShipmentID: req.ShipmentID,
		Phone:      req.Phone,
	})
	if err != nil {
		var status *provider.StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", domain.ErrNotRegistered, err)
		}
		return nil, err
	}
	root, err := provider.ParseBody(body)
	if err != nil {
		return nil, err
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("unexpected cellular payload shape")
	}

	source := domain.SourceReal
	if strings.EqualFold(strings.TrimSpace(root.Get("source").String()), string(domain.SourceMock)) {
		source = domain.SourceMock
	}

	out := &ports.PingResult{Source: source}
	if cur := root.Get("current"); cur.IsObject() {
		if p, ok := c.parsePing(req.ShipmentID, cur, source); ok {
			out.Current = &p
		}
	}
	root.Get("history").ForEach(func(_, rec gjson.Result) bool {
		if p, ok := c.parsePing(req.ShipmentID, rec, source); ok {
			out.History = append(out.History, p)
		}
		return true
	})
	if out.Current == nil && len(out.History) == 0 {
		return nil, fmt.Errorf("cellular response carried no usable location")
	}
	return out, nil
}

func (c *Client) parsePing(shipmentID string, rec gjson.Result, source domain.SourceKind) (domain.PingEvent, bool) {
	lat, okLat := provider.Float(rec.Get("lat"))
	lng, okLng := provider.Float(rec.Get("lng"))
	if !okLat || !okLng || !domain.ValidCoordinates(lat, lng) {
		return domain.PingEvent{}, false
	}
	at, ok := provider.ParseTime(rec.Get("timestamp").String(), c.loc)
	if !ok {
		return domain.PingEvent{}, false
	}
	p := domain.PingEvent{
		ShipmentID:   shipmentID,
		Lat:          lat,
		Lng:          lng,
		RecordedAt:   at,
		LocationName: strings.TrimSpace(rec.Get("location_name").String()),
		Source:       source,
	}
	if speed, ok := provider.Float(rec.Get("speed")); ok && speed >= 0 {
		p.Speed = &speed
	}
	return p, true
}
