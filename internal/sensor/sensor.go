// Package sensor implements core.Source over NATS and MQTT brokers.
//
// A sensor publishes JSON payloads on a subject/topic; each payload carries
// one or more scalar samples addressed by a gjson path. Discovery succeeds
// only when a first payload arrives within the discovery timeout, which is
// how an advertised-but-silent stream is told apart from a live one.
package sensor

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeSamples extracts scalar samples from a JSON payload.
//
// If path addresses an array, every element is returned in order; if it
// addresses a single number, one sample is returned. A payload the path
// does not match is an error: dropping it silently would desynchronize
// the pull cadence from the publisher.
func DecodeSamples(payload []byte, path string) ([]float64, error) {
	res := gjson.GetBytes(payload, path)
	if !res.Exists() {
		return nil, fmt.Errorf("no sample at path %q in payload", path)
	}
	if res.IsArray() {
		arr := res.Array()
		out := make([]float64, 0, len(arr))
		for _, v := range arr {
			if v.Type != gjson.Number {
				return nil, fmt.Errorf("non-numeric sample %q in payload", v.Raw)
			}
			out = append(out, v.Float())
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("empty sample batch in payload")
		}
		return out, nil
	}
	if res.Type != gjson.Number {
		return nil, fmt.Errorf("no numeric sample at path %q", path)
	}
	return []float64{res.Float()}, nil
}
