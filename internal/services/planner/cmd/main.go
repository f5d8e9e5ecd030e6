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

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/registry"
	"github.com/Dhieaaldin/backend/internal/services/planner"
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
		ClientID: fmt.Sprintf("planner-%s", env("HOSTNAME", "local")),
	}
	client, err := mqttbus.NewConn(ctx, cfg)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	plots, err := registry.Load(env("PLOTS_CONFIG_PATH", "config/plots.json"))
	if err != nil {
		log.Fatalf("plot registry: %v", err)
	}

	agroCfg := agro.DefaultConfig()
	table := agro.DefaultKcTable()
	if path := env("KC_TABLE_PATH", ""); path != "" {
		if table, err = agro.LoadKcTable(path); err != nil {
			log.Fatalf("kc table: %v", err)
		}
	}
	resolver, err := agro.NewCropCoefficientResolver(table, agroCfg)
	if err != nil {
		log.Fatalf("kc resolver: %v", err)
	}

	consumer := mqttbus.NewMultiConsumer[model.WeatherObservation](client, []string{
		env("AGGREGATED_SUB_TOPIC", "sensor/aggregated/#"),
		env("NDVI_DAILY_SUB_TOPIC", "sensor/ndvi-daily/#"),
	}, nil)
	publisher := mqttbus.NewPublisher(client, "event/recommendation")

	p, err := planner.New(consumer, publisher, agroCfg, resolver, plots,
		planner.WithDecisionTopic(env("DECISION_TOPIC_TMPL", "event/recommendation/{plot}")),
		planner.WithNDVIMaxAge(time.Duration(envInt("NDVI_MAX_AGE_DAYS", 10))*24*time.Hour),
	)
	if err != nil {
		log.Fatalf("planner init: %v", err)
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	log.Printf("planner running: plots=%d", len(plots))
	p.Start(ctx)
}
