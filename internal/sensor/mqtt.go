package sensor

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"vagus/internal/core"
)

// MQTTSource discovers live sensor streams published on an MQTT topic.
type MQTTSource struct {
	URL        string
	Topic      string
	SamplePath string
	Username   string
	Password   string
}

// Discover connects to the broker, subscribes to the topic and waits for a
// first payload within the timeout. As with NATS, every failure maps to
// core.ErrNoStream so the engine can degrade to synthetic data.
func (s *MQTTSource) Discover(ctx context.Context, property, value string, timeout time.Duration) (core.Stream, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.URL)
	opts.SetClientID(fmt.Sprintf("vagus-%d", time.Now().UnixNano()))
	opts.SetUsername(s.Username)
	opts.SetPassword(s.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(timeout) || token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("%w: connecting to %s: %v", core.ErrNoStream, s.URL, token.Error())
	}

	samples := make(chan float64, 256)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		decoded, err := DecodeSamples(msg.Payload(), s.SamplePath)
		if err != nil {
			return // malformed payload, surfaced as a pull timeout downstream
		}
		for _, v := range decoded {
			select {
			case samples <- v:
			default: // consumer lagging, drop oldest-first behavior not needed
			}
		}
	}
	if token := client.Subscribe(s.Topic, 0, handler); !token.WaitTimeout(timeout) || token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("%w: subscribing to %s: %v", core.ErrNoStream, s.Topic, token.Error())
	}

	// Confirm a publisher exists before binding the stream.
	select {
	case v := <-samples:
		return &mqttStream{client: client, topic: s.Topic, samples: samples, pending: []float64{v}}, nil
	case <-time.After(timeout):
		client.Disconnect(250)
		return nil, fmt.Errorf("%w: no publisher on %s within %v", core.ErrNoStream, s.Topic, timeout)
	case <-ctx.Done():
		client.Disconnect(250)
		return nil, ctx.Err()
	}
}

type mqttStream struct {
	client  mqtt.Client
	topic   string
	samples chan float64
	pending []float64
}

func (st *mqttStream) Pull(ctx context.Context, timeout time.Duration) (float64, error) {
	if len(st.pending) > 0 {
		v := st.pending[0]
		st.pending = st.pending[1:]
		return v, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case v := <-st.samples:
		return v, nil
	case <-timer.C:
		return 0, core.ErrPullTimeout
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (st *mqttStream) Close() error {
	token := st.client.Unsubscribe(st.topic)
	token.WaitTimeout(time.Second)
	st.client.Disconnect(250)
	return token.Error()
}
