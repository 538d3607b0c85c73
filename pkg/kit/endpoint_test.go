package kit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	ep := Chain(mw("a"), mw("b"), mw("c"))(func(ctx context.Context, req any) (any, error) {
		order = append(order, "endpoint")
		return req, nil
	})

	if _, err := ep(context.Background(), "x"); err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	want := []string{"a", "b", "c", "endpoint"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ok := Logging(logger, "ok")(func(ctx context.Context, req any) (any, error) {
		return "resp", nil
	})
	resp, err := ok(context.Background(), nil)
	if err != nil || resp != "resp" {
		t.Fatalf("resp=%v err=%v", resp, err)
	}

	boom := errors.New("boom")
	failing := Logging(logger, "fail")(func(ctx context.Context, req any) (any, error) {
		return nil, boom
	})
	if _, err := failing(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	if GetTransport(ctx) != "http" {
		t.Errorf("default transport = %q", GetTransport(ctx))
	}

	ctx = WithTransport(ctx, "mcp_quic")
	ctx = WithRequestID(ctx, "req-1")
	if GetTransport(ctx) != "mcp_quic" || GetRequestID(ctx) != "req-1" {
		t.Errorf("transport=%q request_id=%q", GetTransport(ctx), GetRequestID(ctx))
	}

	if id := NewRequestID(); len(id) != 16 {
		t.Errorf("NewRequestID length = %d", len(id))
	}
}
