package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/services/collector"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: fmt.Sprintf("collector-%s", env("HOSTNAME", "local")),
	}
	client, err := mqttbus.NewConn(ctx, cfg)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	consumer := mqttbus.NewMultiConsumer[model.RawWeatherReading](client, []string{
		env("WEATHER_SUB_TOPIC", "sensor/weather/#"),
		env("NDVI_SUB_TOPIC", "sensor/ndvi/#"),
	}, nil)
	publisher := mqttbus.NewPublisher(client, "sensor/aggregated")

	reg := prometheus.NewRegistry()
	metrics := collector.NewMetrics(reg)

	svc := collector.NewService(
		consumer,
		publisher,
		agro.DefaultConfig(),
		metrics,
		time.Duration(envInt("AGGREGATION_INTERVAL_MIN", 60))*time.Minute,
	)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
		addr := ":" + env("METRICS_PORT", "9091")
		log.Printf("collector metrics on %s", addr)
		log.Println(http.ListenAndServe(addr, mux))
	}()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	log.Println("collector running...")
	svc.Start(ctx)
}
