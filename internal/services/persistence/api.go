package persistence

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
)

// NewHTTPMux exposes the in-memory caches to the gateway.
//
//	GET /observations/latest                  newest aggregate per plot
//	GET /recommendations/recent?plot=&limit=  recent recommendation events
func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("/observations/latest", func(w http.ResponseWriter, r *http.Request) {
		list := svc.LatestObservations()
		sort.Slice(list, func(i, j int) bool { return list[i].PlotID < list[j].PlotID })
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	})

	mux.HandleFunc("/recommendations/recent", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := 100
		if s := q.Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}
		list := svc.RecentEvents(q.Get("plot"), limit)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	})

	return mux
}
