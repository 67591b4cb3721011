package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConfig_Options(t *testing.T) {
	opts := Config{Addr: "cache:6379", DB: 2}.options()
	if opts.ClientName != defaultClientName {
		t.Fatalf("expected default client name, got %q", opts.ClientName)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Fatalf("unexpected timeouts: %+v", opts)
	}

	opts = Config{ClientName: "throttle", Timeout: time.Second}.options()
	if opts.ClientName != "throttle" || opts.WriteTimeout != time.Second {
		t.Fatalf("unexpected overrides: %+v", opts)
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	mr.Close()
	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
}
