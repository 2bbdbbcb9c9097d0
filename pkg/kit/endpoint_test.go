package kit

import (
	"context"
	"errors"
	"testing"
)

func TestChainOrdering(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	ep := Chain(mw("outer"), mw("middle"), mw("inner"))(
		func(ctx context.Context, req any) (any, error) {
			order = append(order, "endpoint")
			return req, nil
		})

	resp, err := ep(context.Background(), "payload")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if resp != "payload" {
		t.Errorf("response = %v", resp)
	}

	want := []string{"outer", "middle", "inner", "endpoint"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestChainPropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	passthrough := func(next Endpoint) Endpoint { return next }

	ep := Chain(passthrough)(func(ctx context.Context, req any) (any, error) {
		return nil, sentinel
	})
	if _, err := ep(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want sentinel", err)
	}
}

func TestTransportContext(t *testing.T) {
	ctx := WithTransport(context.Background(), "mcp_quic")
	if got := GetTransport(ctx); got != "mcp_quic" {
		t.Errorf("transport = %q", got)
	}
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("unset transport = %q, want http default", got)
	}
}
