package awsx

import (
	"context"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
)

// ClientCache builds one service client per profile|region pair and reuses it
// across tool invocations. Credential resolution stays with the SDK chain.
type ClientCache[T any] struct {
	settings Settings
	build    func(sdkaws.Config) T
	mu       sync.Mutex
	entries  map[string]clientEntry[T]
}

type clientEntry[T any] struct {
	client T
	region string
}

func NewClientCache[T any](settings Settings, build func(sdkaws.Config) T) *ClientCache[T] {
	return &ClientCache[T]{
		settings: settings,
		build:    build,
		entries:  map[string]clientEntry[T]{},
	}
}

func (c *ClientCache[T]) Get(ctx context.Context, region string) (T, string, error) {
	key := c.key(region)
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry.client, entry.region, nil
	}
	c.mu.Unlock()

	cfg, err := c.settings.Load(ctx, region)
	if err != nil {
		var zero T
		return zero, "", err
	}
	client := c.build(cfg)
	usedRegion := strings.TrimSpace(cfg.Region)
	c.mu.Lock()
	c.entries[key] = clientEntry[T]{client: client, region: usedRegion}
	c.mu.Unlock()
	return client, usedRegion, nil
}

func (c *ClientCache[T]) key(region string) string {
	key := c.settings.ResolveRegion(region)
	if key == "" {
		key = "default"
	}
	if profile := c.settings.ResolveProfile(); profile != "" {
		key = profile + "|" + key
	}
	return key
}
