package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/cluster"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/provider/crossing"
)

// Rules is the optional tracking rules file. Every section is optional;
// omitted sections keep the built-in defaults.
type Rules struct {
	DenyList          []string                    `yaml:"deny_list" validate:"dive,required"`
	FallbackCrossings []crossing.FallbackCrossing `yaml:"fallback_crossings" validate:"dive"`
	Tariffs           Tariffs                     `yaml:"tariffs"`
	Map               MapRules                    `yaml:"map"`
}

// Tariffs overrides the environment cost settings.
type Tariffs struct {
	CrossingCallCost string `yaml:"crossing_call_cost" validate:"omitempty,numeric"`
	SimDailyCost     string `yaml:"sim_daily_cost" validate:"omitempty,numeric"`
}

type MapRules struct {
	CenterLat float64 `yaml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLng float64 `yaml:"center_lng" validate:"gte=-180,lte=180"`
	Zoom      int     `yaml:"zoom" validate:"gte=0,lte=20"`
}

// LoadRules reads and validates the rules file. An empty path yields empty rules.
func LoadRules(path string) (*Rules, error) {
	var rules Rules
	if path == "" {
		return &rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := validator.New().Struct(rules); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}
	return &rules, nil
}

// Apply folds the tariff overrides into the tracking settings.
func (r *Rules) Apply(t *TrackingConfig) error {
	if r.Tariffs.CrossingCallCost != "" {
		cost, err := domain.ParseMoney(r.Tariffs.CrossingCallCost)
		if err != nil {
			return fmt.Errorf("tariffs.crossing_call_cost: %w", err)
		}
		t.CrossingCallCost = cost
	}
	if r.Tariffs.SimDailyCost != "" {
		cost, err := domain.ParseMoney(r.Tariffs.SimDailyCost)
		if err != nil {
			return fmt.Errorf("tariffs.sim_daily_cost: %w", err)
		}
		t.SimDailyCost = cost
	}
	return nil
}

// MapFallback returns the configured empty-map viewport, or the zero value
// when the file does not set one.
func (r *Rules) MapFallback() cluster.Viewport {
	if r.Map.CenterLat == 0 && r.Map.CenterLng == 0 {
		return cluster.Viewport{}
	}
	zoom := r.Map.Zoom
	if zoom == 0 {
		zoom = cluster.DefaultViewport.Zoom
	}
	return cluster.Viewport{Center: cluster.LatLng{Lat: r.Map.CenterLat, Lng: r.Map.CenterLng}, Zoom: zoom}
}
