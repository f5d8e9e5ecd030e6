package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/registry"
	"github.com/Dhieaaldin/backend/internal/services/gateway"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func main() {
	_ = godotenv.Load()

	plots, err := registry.Load(env("PLOTS_CONFIG_PATH", "config/plots.json"))
	if err != nil {
		log.Fatalf("plot registry: %v", err)
	}

	timeout := time.Duration(envInt("UPSTREAM_TIMEOUT_SEC", 5)) * time.Second
	upstream := gateway.NewUpstream(env("PERSISTENCE_URL", "http://localhost:8082"), timeout)

	reg := prometheus.NewRegistry()
	metrics := gateway.NewMetrics(reg)

	g := gateway.New(upstream, agro.DefaultConfig(), plots, metrics, timeout)

	addr := fmt.Sprintf(":%d", envInt("HTTP_PORT", 8080))
	log.Printf("gateway running on %s: plots=%d", addr, len(plots))
	if err := http.ListenAndServe(addr, g.NewHTTPMux(reg)); err != nil {
		log.Fatalf("gateway: HTTP server: %v", err)
	}
}
