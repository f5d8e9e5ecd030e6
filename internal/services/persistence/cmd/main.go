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

	"github.com/joho/godotenv"

	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/services/persistence"
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
		ClientID: fmt.Sprintf("persistence-%s", env("HOSTNAME", "local")),
	}
	client, err := mqttbus.NewConn(ctx, cfg)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	consumer := mqttbus.NewMultiConsumer[model.WeatherObservation](client, []string{
		env("AGGREGATED_SUB_TOPIC", "sensor/aggregated/#"),
		env("RECOMMENDATION_SUB_TOPIC", "event/recommendation/#"),
	}, nil)

	svc, err := persistence.NewService(consumer, persistence.InfluxConfig{
		URL:    env("INFLUXDB_URL", "http://localhost:8086"),
		Token:  env("INFLUXDB_TOKEN", ""),
		Org:    env("INFLUXDB_ORG", "irrigation"),
		Bucket: env("INFLUXDB_BUCKET", "field-data"),
	})
	if err != nil {
		log.Fatalf("persistence init: %v", err)
	}

	httpAddr := fmt.Sprintf(":%d", envInt("HTTP_PORT", 8082))
	go func() {
		log.Printf("persistence: HTTP API on %s", httpAddr)
		if err := http.ListenAndServe(httpAddr, persistence.NewHTTPMux(svc)); err != nil {
			log.Fatalf("persistence: HTTP server: %v", err)
		}
	}()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	log.Println("persistence running")
	svc.Start(ctx)
}
