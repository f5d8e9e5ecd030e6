package mqttbus

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one message from a topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes to one or more topics and feeds messages of
// payload type T to its handler.
type IConsumer[T any] interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// qosFor: aggregated observations and recommendation events ride QoS 1,
// raw sensor readings are fine at QoS 0.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "sensor/aggregated") ||
		strings.HasPrefix(t, "sensor/ndvi-daily") ||
		strings.HasPrefix(t, "event/recommendation") {
		return 1
	}
	return 0
}

// Consumer subscribes to a single topic filter.
type Consumer[T any] struct {
	client  mqtt.Client
	topic   string
	handler Handler
}

func NewConsumer[T any](client mqtt.Client, topic string, handler Handler) *Consumer[T] {
	return &Consumer[T]{client: client, topic: topic, handler: handler}
}

func (c *Consumer[T]) SetHandler(handler Handler) { c.handler = handler }

// ConsumeMessage subscribes and blocks until ctx is cancelled, then
// unsubscribes.
func (c *Consumer[T]) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, qosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqttbus: no handler set for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqttbus: handler error on %s: %v", message.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqttbus: subscribe %s: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqttbus: subscribed to %s", c.topic)

	<-ctx.Done()
	c.client.Unsubscribe(c.topic).Wait()
}

// MultiConsumer subscribes to several topic filters with one handler.
type MultiConsumer[T any] struct {
	client  mqtt.Client
	topics  []string
	handler Handler
}

func NewMultiConsumer[T any](client mqtt.Client, topics []string, handler Handler) *MultiConsumer[T] {
	return &MultiConsumer[T]{client: client, topics: topics, handler: handler}
}

func (m *MultiConsumer[T]) SetHandler(handler Handler) { m.handler = handler }

func (m *MultiConsumer[T]) ConsumeMessage(ctx context.Context) {
	for _, topic := range m.topics {
		token := m.client.Subscribe(topic, qosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			if m.handler == nil {
				log.Printf("mqttbus: no handler set for topic %s", msg.Topic())
				return
			}
			if err := m.handler(msg.Topic(), msg); err != nil {
				log.Printf("mqttbus: handler error on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("mqttbus: subscribe %s: %v", topic, token.Error())
		} else {
			log.Printf("mqttbus: subscribed to %s", topic)
		}
	}

	<-ctx.Done()
	for _, topic := range m.topics {
		m.client.Unsubscribe(topic)
	}
}
