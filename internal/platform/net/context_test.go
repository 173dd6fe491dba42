package net_test

import (
	"context"
	"testing"

	pnet "codegap/internal/platform/net"
)

func TestWithUserAndGetter(t *testing.T) {
	base := context.Background()

	t.Run("sets user id", func(t *testing.T) {
		ctx := pnet.WithUser(base, "u-123")
		if got := pnet.UserID(ctx); got != "u-123" {
			t.Fatalf("UserID got %q want %q", got, "u-123")
		}
	})

	t.Run("empty user leaves ctx unchanged", func(t *testing.T) {
		ctx := pnet.WithUser(base, "")
		if ctx != base {
			t.Fatal("expected ctx to be unchanged for empty user")
		}
		if got := pnet.UserID(ctx); got != "" {
			t.Fatalf("UserID got %q want empty", got)
		}
	})
}

func TestWithRequestID(t *testing.T) {
	base := context.Background()

	ctx := pnet.WithRequestID(base, "req-123")
	if got := pnet.RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID got %q want %q", got, "req-123")
	}

	if ctx := pnet.WithRequestID(base, ""); ctx != base {
		t.Fatal("expected ctx to be unchanged for empty request id")
	}
}
