package events

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// topicPrefix namespaces every room topic on the broker.
const topicPrefix = "signage"

// MQTTPublisher delivers room events over an MQTT broker. Each room maps to
// one topic under topicPrefix; displays subscribe to their own display room
// and to their group's room. QoS 1 gives the at-least-once delivery the
// clients expect.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker and returns a ready publisher.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &MQTTPublisher{client: client}, nil
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (p *MQTTPublisher) Publish(room, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	topic := fmt.Sprintf("%s/%s", topicPrefix, room)
	token := p.client.Publish(topic, 1, false, body)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish %s to %s: %w", event, topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight publishes to finish.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
