package redis

import (
	"testing"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestOptionsFromConfigPrefersURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:     "redis://:secret@localhost:6380/2",
		Address: "ignored:6379",
	})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr: %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db: %d", opts.DB)
	}
}

func TestKeyNamespacing(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if got := c.IdempotencyKey("shopify_webhook", "evt-1"); got != "b2b:idempotency:shopify_webhook:evt-1" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := c.CounterKey("orders"); got != "b2b:counter:orders" {
		t.Fatalf("unexpected key: %s", got)
	}
}
