package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Dhieaaldin/backend/internal/model"
)

// Upstream is the persistence-service REST client. Calls run through a
// circuit breaker; the last good payload is kept as a fallback so a
// short outage does not blank the dashboard.
type Upstream struct {
	base string
	http *http.Client
	cb   *gobreaker.CircuitBreaker

	mu             sync.RWMutex
	lastGoodEvents map[string][]model.RecommendationEvent // keyed by plot id ("" = all)
}

func NewUpstream(base string, timeout time.Duration) *Upstream {
	return &Upstream{
		base: base,
		http: &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "persistence",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
		}),
		lastGoodEvents: make(map[string][]model.RecommendationEvent),
	}
}

// RecentRecommendations fetches recommendation events for a plot. On
// upstream failure the last good response for that plot is returned
// with ok=false so handlers can mark the data as stale.
func (u *Upstream) RecentRecommendations(ctx context.Context, plotID string, limit int) ([]model.RecommendationEvent, bool) {
	url := fmt.Sprintf("%s/recommendations/recent?plot=%s&limit=%d", u.base, plotID, limit)

	res, err := u.cb.Execute(func() (any, error) {
		var out []model.RecommendationEvent
		if err := u.getJSON(ctx, url, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		u.mu.RLock()
		cached := u.lastGoodEvents[plotID]
		u.mu.RUnlock()
		return cached, false
	}

	events := res.([]model.RecommendationEvent)
	u.mu.Lock()
	u.lastGoodEvents[plotID] = events
	u.mu.Unlock()
	return events, true
}

// LatestObservations fetches the newest aggregate per plot.
func (u *Upstream) LatestObservations(ctx context.Context) ([]model.WeatherObservation, error) {
	res, err := u.cb.Execute(func() (any, error) {
		var out []model.WeatherObservation
		if err := u.getJSON(ctx, u.base+"/observations/latest", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]model.WeatherObservation), nil
}

func (u *Upstream) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := u.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("GET %s -> %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
