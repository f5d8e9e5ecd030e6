package persistence

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return &Service{latestObs: make(map[string]model.WeatherObservation)}
}

func eventFixture(plotID string, d int) messages.RecommendationEvent {
	return messages.RecommendationEvent{
		EventID: fmt.Sprintf("evt-%s-%d", plotID, d),
		Recommendation: entities.IrrigationRecommendation{
			PlotID: plotID,
			Date:   time.Date(2026, 6, 1+d, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestRecentEvents(t *testing.T) {
	svc := testService(t)
	for d := 0; d < 5; d++ {
		svc.recentEvents = append(svc.recentEvents, eventFixture("plot-1", d))
	}
	svc.recentEvents = append(svc.recentEvents, eventFixture("plot-2", 0))

	t.Run("filter by plot", func(t *testing.T) {
		got := svc.RecentEvents("plot-2", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "plot-2", got[0].Recommendation.PlotID)
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		got := svc.RecentEvents("plot-1", 2)
		require.Len(t, got, 2)
		assert.Equal(t, "evt-plot-1-4", got[1].EventID)
	})
}

func TestHTTPMux(t *testing.T) {
	svc := testService(t)
	svc.latestObs["plot-1"] = model.WeatherObservation{PlotID: "plot-1", Aggregated: true}
	svc.latestObs["plot-2"] = model.WeatherObservation{PlotID: "plot-2", Aggregated: true}
	svc.recentEvents = append(svc.recentEvents, eventFixture("plot-1", 0))
	mux := NewHTTPMux(svc)

	t.Run("latest observations sorted by plot", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/observations/latest", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var list []model.WeatherObservation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "plot-1", list[0].PlotID)
		assert.Equal(t, "plot-2", list[1].PlotID)
	})

	t.Run("recent recommendations", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recommendations/recent?plot=plot-1&limit=5", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var list []messages.RecommendationEvent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
	})

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
