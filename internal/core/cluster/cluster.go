// Package cluster turns a shipment's location history into map-ready groups,
// a route polyline and a viewport that frames them.
package cluster

import (
	"math"
	"sort"
	"time"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// DefaultViewport frames the whole of India. Used when there is nothing to show.
var DefaultViewport = Viewport{Center: LatLng{Lat: 20.5937, Lng: 78.9629}, Zoom: 5}

// LatLng is a bare map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point is one location event to be placed on the map.
type Point struct {
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
	Time   time.Time `json:"time"`
	Label  string    `json:"label,omitempty"`
	Source string    `json:"source,omitempty"`
}

// Member is a point inside a group.
type Member struct {
	Point
	Latest bool `json:"latest"`
}

// Group holds every point whose coordinates round to the same grid cell.
type Group struct {
	Key     string   `json:"key"`
	Center  LatLng   `json:"center"`
	Members []Member `json:"members"`
	Latest  bool     `json:"latest"`
}

// Viewport is the map center and zoom level.
type Viewport struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// MapView is everything the map widget needs to render a route.
type MapView struct {
	Groups   []Group  `json:"groups"`
	Polyline []LatLng `json:"polyline"`
	Viewport Viewport `json:"viewport"`
	Points   int      `json:"points"`
}

// Key returns the grid cell of a point.
func Key(p Point) string {
	return domain.GridKey(p.Lat, p.Lng)
}

// byTime returns the points ordered by time. Equal times keep input order,
// so the last element is the most recent point with ties going to the later one.
func byTime(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}

// Cluster groups points by rounded grid cell regardless of arrival order.
// Groups are ordered by their earliest member and members by time. The group
// holding the most recent point, and that member, are flagged Latest.
func Cluster(points []Point) []Group {
	if len(points) == 0 {
		return nil
	}
	sorted := byTime(points)

	index := make(map[string]int)
	groups := make([]Group, 0)
	latestGroup, latestMember := 0, 0

	for _, p := range sorted {
		key := Key(p)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{
				Key:    key,
				Center: LatLng{Lat: domain.Round4(p.Lat), Lng: domain.Round4(p.Lng)},
			})
		}
		groups[gi].Members = append(groups[gi].Members, Member{Point: p})
		latestGroup, latestMember = gi, len(groups[gi].Members)-1
	}

	groups[latestGroup].Latest = true
	groups[latestGroup].Members[latestMember].Latest = true
	return groups
}

// FitViewport frames the points, falling back to DefaultViewport when empty.
func FitViewport(points []Point) Viewport {
	return fitViewport(points, DefaultViewport)
}

func fitViewport(points []Point, fallback Viewport) Viewport {
	if len(points) == 0 {
		return fallback
	}
	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}
	span := math.Max(maxLat-minLat, maxLng-minLng)
	return Viewport{
		Center: LatLng{Lat: (minLat + maxLat) / 2, Lng: (minLng + maxLng) / 2},
		Zoom:   ZoomForSpan(span),
	}
}

// ZoomForSpan maps the larger bounding-box side, in degrees, to a zoom level.
func ZoomForSpan(span float64) int {
	switch {
	case span > 5:
		return 6
	case span > 2:
		return 7
	case span > 1:
		return 8
	case span > 0.5:
		return 9
	default:
		return 10
	}
}

// Polyline returns the route in time order with consecutive points in the
// same grid cell collapsed into one vertex.
func Polyline(points []Point) []LatLng {
	line := make([]LatLng, 0, len(points))
	prev := ""
	for _, p := range byTime(points) {
		key := Key(p)
		if key == prev {
			continue
		}
		prev = key
		line = append(line, LatLng{Lat: p.Lat, Lng: p.Lng})
	}
	return line
}

// BuildMap assembles groups, polyline and viewport. fallback is used when
// there are no points; a zero fallback means DefaultViewport.
func BuildMap(points []Point, fallback Viewport) MapView {
	if fallback.Zoom == 0 {
		fallback = DefaultViewport
	}
	groups := Cluster(points)
	if groups == nil {
		groups = []Group{}
	}
	return MapView{
		Groups:   groups,
		Polyline: Polyline(points),
		Viewport: fitViewport(points, fallback),
		Points:   len(points),
	}
}

// FromCrossings converts crossing events into map points labelled by plaza.
func FromCrossings(events []domain.CrossingEvent) []Point {
	points := make([]Point, 0, len(events))
	for _, e := range events {
		points = append(points, Point{
			Lat:    e.Lat,
			Lng:    e.Lng,
			Time:   e.CrossedAt,
			Label:  e.PlazaName,
			Source: string(e.Source),
		})
	}
	return points
}

// FromPings converts cellular pings into map points.
func FromPings(pings []domain.PingEvent) []Point {
	points := make([]Point, 0, len(pings))
	for _, p := range pings {
		points = append(points, Point{
			Lat:    p.Lat,
			Lng:    p.Lng,
			Time:   p.RecordedAt,
			Label:  p.LocationName,
			Source: string(p.Source),
		})
	}
	return points
}
