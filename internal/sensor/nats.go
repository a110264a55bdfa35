package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"vagus/internal/core"
)

// NATSSource discovers live sensor streams published on a NATS subject.
type NATSSource struct {
	URL        string
	Subject    string
	SamplePath string
}

// Discover connects to the broker, subscribes to the configured subject and
// waits for a first payload carrying property=value metadata in its header
// (or any payload when the publisher sets no headers). Any failure along the
// way is reported as core.ErrNoStream; the caller decides whether to fall
// back to synthetic data.
func (s *NATSSource) Discover(ctx context.Context, property, value string, timeout time.Duration) (core.Stream, error) {
	nc, err := nats.Connect(
		s.URL,
		nats.Name("vagus"),
		nats.Timeout(timeout),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", core.ErrNoStream, s.URL, err)
	}

	sub, err := nc.SubscribeSync(s.Subject)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: subscribing to %s: %v", core.ErrNoStream, s.Subject, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			nc.Close()
			return nil, err
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			nc.Close()
			return nil, fmt.Errorf("%w: no publisher on %s within %v", core.ErrNoStream, s.Subject, timeout)
		}
		msg, err := sub.NextMsg(wait)
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("%w: no publisher on %s within %v", core.ErrNoStream, s.Subject, timeout)
		}
		if hv := msg.Header.Get(property); hv != "" && hv != value {
			continue // some other stream type on the same subject
		}
		samples, err := DecodeSamples(msg.Data, s.SamplePath)
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("%w: first payload on %s: %v", core.ErrNoStream, s.Subject, err)
		}
		return &natsStream{nc: nc, sub: sub, path: s.SamplePath, buffered: samples}, nil
	}
}

type natsStream struct {
	nc       *nats.Conn
	sub      *nats.Subscription
	path     string
	buffered []float64
}

// Pull returns the next scalar sample, draining buffered batch samples
// before waiting on the wire.
func (st *natsStream) Pull(ctx context.Context, timeout time.Duration) (float64, error) {
	if len(st.buffered) > 0 {
		v := st.buffered[0]
		st.buffered = st.buffered[1:]
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg, err := st.sub.NextMsg(timeout)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) {
			return 0, core.ErrPullTimeout
		}
		return 0, fmt.Errorf("%w: %v", core.ErrPullTimeout, err)
	}
	samples, err := DecodeSamples(msg.Data, st.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrPullTimeout, err)
	}
	st.buffered = samples[1:]
	return samples[0], nil
}

func (st *natsStream) Close() error {
	err := st.sub.Unsubscribe()
	st.nc.Close()
	return err
}
