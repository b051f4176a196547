package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"trash-route-solver/internal/adapters/cache"
	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/platform/obs"
	"trash-route-solver/internal/ports"
)

// LocateFunc resolves a stop id to its coordinates (longitude in X,
// latitude in Y).
type LocateFunc func(id int64) (domain.Point, bool)

// OSRM implements the travel-time oracle against an OSRM routing service.
//
// It coordinates:
//   - Stop id to coordinate resolution
//   - Persistent SQLite pair caching
//   - External API calls with retry/backoff
//
// A lookup the backend cannot answer surfaces as ErrRouteUnavailable; no
// default duration is ever substituted.
//
// The adapter is safe for concurrent use.
type OSRM struct {
	session *http.Client
	baseURL string
	profile string
	locate  LocateFunc
	cache   *cache.SqliteTravelTimeCache
}

// NewOSRM builds the adapter. An empty profile falls back to "driving".
func NewOSRM(baseURL, profile string, locate LocateFunc, travelCache *cache.SqliteTravelTimeCache) (*OSRM, error) {
	if baseURL == "" {
		return nil, errors.New("osrm base url is empty")
	}
	if locate == nil {
		return nil, errors.New("osrm locate func is nil")
	}
	if profile == "" {
		profile = "driving"
	}

	return &OSRM{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: profile,
		locate:  locate,
		cache:   travelCache,
	}, nil
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Duration returns the travel time in seconds between two stops.
func (o *OSRM) Duration(ctx context.Context, fromID, toID int64) (_ float64, err error) {
	defer obs.Time(ctx, "osrm.Duration")(&err)

	// Check the persistent cache before issuing external API calls.
	if o.cache != nil {
		seconds, hit, err := o.cache.Get(fromID, toID)
		if err != nil {
			return 0, fmt.Errorf("osrm travel cache: %w", err)
		}
		if hit {
			return seconds, nil
		}
	}

	from, ok := o.locate(fromID)
	if !ok {
		return 0, fmt.Errorf("osrm: no coordinates for stop %d: %w", fromID, ports.ErrRouteUnavailable)
	}
	to, ok := o.locate(toID)
	if !ok {
		return 0, fmt.Errorf("osrm: no coordinates for stop %d: %w", toID, ports.ErrRouteUnavailable)
	}

	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		o.baseURL, o.profile, from.X, from.Y, to.X, to.Y)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("osrm route %d -> %d: %v: %w", fromID, toID, err, ports.ErrRouteUnavailable)
	}
	defer resp.Body.Close()

	var decoded osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("osrm route %d -> %d: decode response: %w", fromID, toID, err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return 0, fmt.Errorf("osrm route %d -> %d: code=%q routes=%d: %w",
			fromID, toID, decoded.Code, len(decoded.Routes), ports.ErrRouteUnavailable)
	}

	seconds := decoded.Routes[0].Duration
	if o.cache != nil {
		if err := o.cache.Put(fromID, toID, seconds); err != nil {
			log.Printf("travel cache write failed: %v", err)
		}
	}
	return seconds, nil
}
