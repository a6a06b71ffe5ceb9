// Package verify provides an optional geocode-backed address comparator.
// It is wired in as a custom comparator for the address field; the default
// comparison path never touches the network.
package verify

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"googlemaps.github.io/maps"

	"business-dedup/internal/matcher"
	"business-dedup/internal/models"
	"business-dedup/internal/similarity"
	"business-dedup/pkg/logging"
	"business-dedup/pkg/normalize"
)

const geocodeTimeout = 5 * time.Second

type coords struct {
	lat, lng float64
	ok       bool
}

// GeocodeComparator scores address pairs by geocoded distance. Two records
// geocoding within 50 meters score 1.0, scaling down to 0 at 500 meters.
// When either side cannot be geocoded it falls back to the textual address
// similarity, so enabling it never loses matches.
type GeocodeComparator struct {
	client *maps.Client
	log    *logging.Logger

	mu    sync.RWMutex
	cache map[string]coords
}

func NewGeocodeComparator(apiKey string, log *logging.Logger) (*GeocodeComparator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &GeocodeComparator{
		client: client,
		log:    log.WithComponent("geocode"),
		cache:  make(map[string]coords),
	}, nil
}

// Comparator adapts the geocoder to the matcher's custom comparator
// contract for the address field.
func (g *GeocodeComparator) Comparator() matcher.Comparator {
	return func(a, b *models.BusinessRecord) (float64, bool) {
		if a.Address == nil || b.Address == nil {
			return 0, false
		}

		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()

		ca := g.lookup(ctx, a.Address)
		cb := g.lookup(ctx, b.Address)
		if !ca.ok || !cb.ok {
			return similarity.Address(a.Address, b.Address)
		}
		return distanceScore(haversineMeters(ca.lat, ca.lng, cb.lat, cb.lng)), true
	}
}

func (g *GeocodeComparator) lookup(ctx context.Context, addr *models.Address) coords {
	key := addressLine(addr)
	if key == "" {
		return coords{}
	}

	g.mu.RLock()
	cached, hit := g.cache[key]
	g.mu.RUnlock()
	if hit {
		return cached
	}

	c := g.geocode(ctx, key)
	g.mu.Lock()
	g.cache[key] = c
	g.mu.Unlock()
	return c
}

func (g *GeocodeComparator) geocode(ctx context.Context, line string) coords {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: line})
	if err != nil {
		g.log.Warn("geocode failed, using textual comparison",
			logging.String("address", line), logging.String("reason", err.Error()))
		return coords{}
	}
	if len(results) == 0 {
		return coords{}
	}
	loc := results[0].Geometry.Location
	return coords{lat: loc.Lat, lng: loc.Lng, ok: true}
}

// addressLine builds a normalized one-line address used both as the cache
// key and the geocoding query.
func addressLine(addr *models.Address) string {
	parts := make([]string, 0, 4)
	if s := normalize.Street(addr.Street); s != "" {
		parts = append(parts, s)
	}
	if c := normalize.City(addr.City); c != "" {
		parts = append(parts, c)
	}
	if p := strings.TrimSpace(strings.ToLower(addr.Province)); p != "" {
		parts = append(parts, p)
	}
	if pc := normalize.PostalCode(addr.PostalCode); pc != "" {
		parts = append(parts, pc)
	}
	return strings.Join(parts, ", ")
}

// distanceScore maps meters between geocoded points to [0,1]. Within 50m
// counts as the same location; beyond 500m as unrelated.
func distanceScore(meters float64) float64 {
	switch {
	case meters <= 50:
		return 1.0
	case meters >= 500:
		return 0
	default:
		return 1.0 - (meters-50)/450
	}
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
