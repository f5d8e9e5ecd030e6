package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dhieaaldin/backend/internal/datasource"
	"github.com/Dhieaaldin/backend/internal/registry"
	"github.com/Dhieaaldin/backend/internal/services/ingest"
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
		ClientID: fmt.Sprintf("ingest-%s", env("HOSTNAME", "local")),
	}
	client, err := mqttbus.NewConn(ctx, cfg)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	plots, err := registry.Load(env("PLOTS_CONFIG_PATH", "config/plots.json"))
	if err != nil {
		log.Fatalf("plot registry: %v", err)
	}

	var source datasource.DataSource
	switch mode := env("DATA_SOURCE", "mock"); mode {
	case "live":
		source = datasource.NewLive(
			env("OWM_API_KEY", ""),
			env("NDVI_BASE_URL", ""),
			time.Duration(envInt("HTTP_TIMEOUT_MS", 6000))*time.Millisecond,
		)
	case "mock":
		source = datasource.NewMock()
	default:
		log.Fatalf("unknown DATA_SOURCE %q (want live or mock)", mode)
	}

	publisher := mqttbus.NewPublisher(client, "sensor/weather")
	svc := ingest.NewService(
		source,
		publisher,
		plots,
		time.Duration(envInt("POLL_INTERVAL_MIN", 60))*time.Minute,
		time.Duration(envInt("LOOKBACK_HOURS", 24))*time.Hour,
	)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	log.Printf("ingest running: source=%s plots=%d", env("DATA_SOURCE", "mock"), len(plots))
	svc.Start(ctx)
}
