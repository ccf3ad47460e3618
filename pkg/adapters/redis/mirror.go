package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/ports"
)

// DefaultPrefix is prepended to the surface name to form the channel.
const DefaultPrefix = "liftnav:"

// Mirror broadcasts navigation snapshots over Redis pub/sub so other processes
// can render the same stack. Nothing is stored.
type Mirror struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

type Option func(*Mirror)

// WithPrefix sets the channel prefix.
func WithPrefix(prefix string) Option {
	return func(m *Mirror) {
		m.prefix = prefix
	}
}

// WithLogger sets the mirror logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// New creates a new Redis mirror with options.
func New(address, password string, db int, opts ...Option) *Mirror {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis mirror from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Mirror {
	m := &Mirror{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Channel returns the pub/sub channel for surface.
func (m *Mirror) Channel(surface string) string {
	return m.prefix + surface
}

// Ping checks connectivity.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (m *Mirror) Close() error {
	return m.client.Close()
}

// Publish sends one snapshot to the surface channel.
func (m *Mirror) Publish(ctx context.Context, surface string, s domain.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := m.client.Publish(ctx, m.Channel(surface), data).Err(); err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}
	return nil
}

// Run publishes every snapshot of nav until ctx is done.
// Publish failures are logged and the next snapshot is still attempted.
func (m *Mirror) Run(ctx context.Context, nav ports.Reader) error {
	surface := nav.Name()
	m.logger.Info("redis mirror started", "channel", m.Channel(surface))
	for s := range nav.StateAsFlow(ctx) {
		if err := m.Publish(ctx, surface, s); err != nil {
			if ctx.Err() != nil {
				break
			}
			m.logger.Warn("redis mirror publish failed", "channel", m.Channel(surface), "err", err)
		}
	}
	m.logger.Info("redis mirror stopped", "channel", m.Channel(surface))
	return nil
}

// Listen subscribes to surface and streams decoded snapshots until ctx is done.
// The subscription is active when Listen returns. Like the coordinator's flows the
// stream is conflated: a slow reader only sees the latest snapshot.
func (m *Mirror) Listen(ctx context.Context, surface string) (<-chan domain.State, error) {
	sub := m.client.Subscribe(ctx, m.Channel(surface))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", m.Channel(surface), err)
	}

	out := make(chan domain.State, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var s domain.State
				if err := json.Unmarshal([]byte(msg.Payload), &s); err != nil {
					m.logger.Warn("redis mirror dropped invalid snapshot", "channel", msg.Channel, "err", err)
					continue
				}
				select {
				case <-out:
				default:
				}
				out <- s
			}
		}
	}()
	return out, nil
}
