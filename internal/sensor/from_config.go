package sensor

import (
	"fmt"

	"vagus/internal/config"
	"vagus/internal/core"
)

// FromConfig builds the sensor source described by the live section.
func FromConfig(live *config.LiveConfig) (core.Source, error) {
	switch live.Transport {
	case "nats":
		return &NATSSource{
			URL:        live.URL,
			Subject:    live.Subject,
			SamplePath: live.SamplePath,
		}, nil
	case "mqtt":
		return &MQTTSource{
			URL:        live.URL,
			Topic:      live.Subject,
			SamplePath: live.SamplePath,
			Username:   live.Username,
			Password:   live.Password,
		}, nil
	default:
		return nil, fmt.Errorf("unknown live transport %q", live.Transport)
	}
}
