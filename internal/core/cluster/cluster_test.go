package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)

func pt(lat, lng float64, minutes int) Point {
	return Point{Lat: lat, Lng: lng, Time: t0.Add(time.Duration(minutes) * time.Minute)}
}

func TestClusterRoundedCoordinatesShareGroup(t *testing.T) {
	groups := Cluster([]Point{
		pt(17.39701, 76.70619, 0),
		pt(17.39703, 76.70618, 0),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "17.3970,76.7062", groups[0].Key)
	assert.Len(t, groups[0].Members, 2)
	assert.Equal(t, LatLng{Lat: 17.397, Lng: 76.7062}, groups[0].Center)
}

func TestClusterIgnoresArrivalOrder(t *testing.T) {
	a := pt(26.9124, 75.7873, 10)
	b := pt(28.7041, 77.1025, 20)
	c := pt(26.91241, 75.78731, 30)

	forward := Cluster([]Point{a, b, c})
	backward := Cluster([]Point{c, b, a})

	assert.Equal(t, forward, backward)
	require.Len(t, forward, 2)
	assert.Equal(t, "26.9124,75.7873", forward[0].Key)
	assert.Len(t, forward[0].Members, 2)
}

func TestClusterFlagsLatest(t *testing.T) {
	groups := Cluster([]Point{
		pt(19.0760, 72.8777, 50),
		pt(18.5204, 73.8567, 10),
		pt(19.0760, 72.8777, 5),
	})

	require.Len(t, groups, 2)
	// Earliest member decides group order.
	assert.Equal(t, "19.0760,72.8777", groups[0].Key)
	assert.True(t, groups[0].Latest)
	assert.False(t, groups[1].Latest)

	members := groups[0].Members
	require.Len(t, members, 2)
	assert.False(t, members[0].Latest)
	assert.True(t, members[1].Latest)
	assert.Equal(t, t0.Add(50*time.Minute), members[1].Time)
}

func TestClusterLatestTieGoesToLaterPoint(t *testing.T) {
	groups := Cluster([]Point{
		pt(12.9716, 77.5946, 30),
		pt(13.0827, 80.2707, 30),
	})

	require.Len(t, groups, 2)
	assert.False(t, groups[0].Latest)
	assert.True(t, groups[1].Latest)
}

func TestClusterEmpty(t *testing.T) {
	assert.Nil(t, Cluster(nil))
}

func TestKeyNormalizesNegativeZero(t *testing.T) {
	assert.Equal(t, "0.0000,10.0000", Key(Point{Lat: -0.00001, Lng: 10}))
}

func TestZoomForSpan(t *testing.T) {
	cases := []struct {
		span float64
		want int
	}{
		{6, 6},
		{5.01, 6},
		{5, 7},
		{2.5, 7},
		{2, 8},
		// The documented 1.2° x 0.3° route example quotes zoom 7; the >1°
		// breakpoint places it at 8 and the breakpoints are authoritative.
		{1.2, 8},
		{1, 9},
		{0.6, 9},
		{0.5, 10},
		{0.4, 10},
		{0, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ZoomForSpan(tc.span), "span %v", tc.span)
	}
}

func TestFitViewport(t *testing.T) {
	t.Run("uses the larger side", func(t *testing.T) {
		// 1.2° x 0.3° route: zoom 8 from the >1° breakpoint, not the 7 its
		// documented example quotes.
		vp := FitViewport([]Point{pt(20.0, 75.0, 0), pt(21.2, 75.3, 1)})
		assert.Equal(t, 8, vp.Zoom)
		assert.InDelta(t, 20.6, vp.Center.Lat, 1e-9)
		assert.InDelta(t, 75.15, vp.Center.Lng, 1e-9)
	})

	t.Run("small span", func(t *testing.T) {
		vp := FitViewport([]Point{pt(20.0, 75.0, 0), pt(20.4, 75.4, 1)})
		assert.Equal(t, 10, vp.Zoom)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, DefaultViewport, FitViewport(nil))
	})

	t.Run("single point", func(t *testing.T) {
		vp := FitViewport([]Point{pt(17.3970, 76.7062, 0)})
		assert.Equal(t, 10, vp.Zoom)
		assert.Equal(t, LatLng{Lat: 17.3970, Lng: 76.7062}, vp.Center)
	})
}

func TestPolylineCollapsesConsecutiveCells(t *testing.T) {
	line := Polyline([]Point{
		pt(26.9124, 75.7873, 20),
		pt(26.9124, 75.7873, 0),
		pt(26.91241, 75.78731, 10),
		pt(28.7041, 77.1025, 30),
		pt(26.9124, 75.7873, 40),
	})

	assert.Equal(t, []LatLng{
		{Lat: 26.9124, Lng: 75.7873},
		{Lat: 28.7041, Lng: 77.1025},
		{Lat: 26.9124, Lng: 75.7873},
	}, line)
}

func TestBuildMap(t *testing.T) {
	fallback := Viewport{Center: LatLng{Lat: 1, Lng: 2}, Zoom: 4}

	empty := BuildMap(nil, fallback)
	assert.Equal(t, fallback, empty.Viewport)
	assert.NotNil(t, empty.Groups)
	assert.Empty(t, empty.Polyline)

	view := BuildMap([]Point{pt(26.9124, 75.7873, 0), pt(28.7041, 77.1025, 60)}, Viewport{})
	assert.Equal(t, 2, view.Points)
	assert.Len(t, view.Groups, 2)
	assert.Len(t, view.Polyline, 2)
	assert.Equal(t, 8, view.Viewport.Zoom)
}
