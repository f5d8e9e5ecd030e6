// Package gateway is the grower-facing HTTP API. It reads recommendation
// history from the persistence service and computes savings on demand
// with the core calculator.
package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/model/entities"
)

type Gateway struct {
	upstream *Upstream
	savings  *agro.SavingsCalculator
	plots    map[string]entities.CropPlot
	metrics  *Metrics
	timeout  time.Duration
}

func New(upstream *Upstream, cfg agro.Config, plots map[string]entities.CropPlot, metrics *Metrics, timeout time.Duration) *Gateway {
	return &Gateway{
		upstream: upstream,
		savings:  agro.NewSavingsCalculator(cfg),
		plots:    plots,
		metrics:  metrics,
		timeout:  timeout,
	}
}

// NewHTTPMux wires the API routes.
//
//	GET /api/plots
//	GET /api/plots/{id}/recommendation
//	GET /api/plots/{id}/savings?days=N
//	GET /healthz
//	GET /metrics
func (g *Gateway) NewHTTPMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/plots", g.instrument("plots", g.handlePlots))
	mux.HandleFunc("/api/plots/", g.instrument("plot_detail", g.handlePlotDetail))
	return mux
}

func (g *Gateway) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		g.metrics.Requests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
		g.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (g *Gateway) handlePlots(w http.ResponseWriter, _ *http.Request) {
	list := make([]entities.CropPlot, 0, len(g.plots))
	for _, p := range g.plots {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

// handlePlotDetail dispatches /api/plots/{id}/recommendation and
// /api/plots/{id}/savings.
func (g *Gateway) handlePlotDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/plots/")
	parts := strings.SplitN(rest, "/", 2)
	plot, ok := g.plots[parts[0]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown plot")
		return
	}
	if len(parts) != 2 {
		writeJSON(w, http.StatusOK, plot)
		return
	}

	switch parts[1] {
	case "recommendation":
		g.handleRecommendation(w, r, plot)
	case "savings":
		g.handleSavings(w, r, plot)
	default:
		writeError(w, http.StatusNotFound, "unknown resource")
	}
}

func (g *Gateway) handleRecommendation(w http.ResponseWriter, r *http.Request, plot entities.CropPlot) {
	ctx, cancel := contextWithTimeout(r, g.timeout)
	defer cancel()

	events, fresh := g.upstream.RecentRecommendations(ctx, plot.ID, 1)
	if !fresh {
		g.metrics.UpstreamErrors.WithLabelValues("persistence").Inc()
	}
	if len(events) == 0 {
		writeError(w, http.StatusNotFound, "no recommendation yet")
		return
	}

	w.Header().Set("X-Data-Stale", strconv.FormatBool(!fresh))
	writeJSON(w, http.StatusOK, events[len(events)-1])
}

func (g *Gateway) handleSavings(w http.ResponseWriter, r *http.Request, plot entities.CropPlot) {
	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}

	ctx, cancel := contextWithTimeout(r, g.timeout)
	defer cancel()

	events, fresh := g.upstream.RecentRecommendations(ctx, plot.ID, days)
	if !fresh {
		g.metrics.UpstreamErrors.WithLabelValues("persistence").Inc()
	}

	recs := make([]model.IrrigationRecommendation, 0, len(events))
	for _, e := range events {
		recs = append(recs, e.Recommendation)
	}

	report, err := g.savings.Summarize(recs, plot)
	if err != nil {
		log.Printf("gateway: savings for %s: %v", plot.ID, err)
		writeError(w, http.StatusNotFound, "no recommendations in period")
		return
	}

	w.Header().Set("X-Data-Stale", strconv.FormatBool(!fresh))
	writeJSON(w, http.StatusOK, report)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func contextWithTimeout(r *http.Request, d time.Duration) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
