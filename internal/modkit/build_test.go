package modkit_test

import (
	"net/http"
	"testing"

	"codegap/internal/modkit"
	"codegap/internal/modkit/httpkit"
)

func TestBuildDefaults(t *testing.T) {
	b := modkit.Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || b.SwaggerOn {
		t.Fatalf("zero build got populated fields: %+v", b)
	}
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("hooks should default to no-ops, not nil")
	}
	// defaults must be callable
	if got := b.Subrouter(nil); got != nil {
		t.Fatalf("default subrouter should be identity")
	}
	b.Register(nil)
}

func TestBuildAppliesOptions(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	type ports struct{ N int }

	b := modkit.Build(
		modkit.WithName("papers"),
		modkit.WithPrefix("/papers"),
		modkit.WithMiddlewares(mw),
		modkit.WithPorts(ports{N: 7}),
		modkit.WithSwagger(true),
	)

	if b.Name != "papers" || b.Prefix != "/papers" || !b.SwaggerOn {
		t.Fatalf("options not applied: %+v", b)
	}
	if len(b.Mw) != 1 {
		t.Fatalf("expected 1 middleware, got %d", len(b.Mw))
	}
	p, ok := b.Ports.(ports)
	if !ok || p.N != 7 {
		t.Fatalf("ports round trip failed: %#v", b.Ports)
	}
}

func TestBuildRouterHooks(t *testing.T) {
	subCalled := false
	regCalled := false

	b := modkit.Build(
		modkit.WithSubrouter(func(r httpkit.Router) httpkit.Router {
			subCalled = true
			return r
		}),
		modkit.WithRegister(func(httpkit.Router) { regCalled = true }),
	)

	b.Subrouter(nil)
	b.Register(nil)
	if !subCalled || !regCalled {
		t.Fatalf("hooks not invoked: sub=%v reg=%v", subCalled, regCalled)
	}
}

func TestBuildCopiesMiddlewareSlice(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	opts := []modkit.Option{modkit.WithMiddlewares(mw)}

	a := modkit.Build(opts...)
	b := modkit.Build(opts...)
	if len(a.Mw) != 1 || len(b.Mw) != 1 {
		t.Fatalf("middleware lost across builds")
	}
}
