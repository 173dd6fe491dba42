// Package module wires papers into the API using modkit
package module

import (
	"net/http"

	modkit "codegap/internal/modkit"
	"codegap/internal/modkit/httpkit"
	str "codegap/internal/platform/strings"
	auditdomain "codegap/internal/services/audit/domain"

	phttp "codegap/internal/services/api/papers/http"
	prepo "codegap/internal/services/api/papers/repo"
	psvc "codegap/internal/services/api/papers/service"
)

// Module implements the papers API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc psvc.Service
}

// Ports declares the injected audit ports. Both may be nil, which disables
// the moderation trail
type Ports struct {
	Recorder auditdomain.RecorderPort
	Reader   auditdomain.ReaderPort
}

// New constructs the papers module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("papers"),
		modkit.WithPrefix("/papers"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	svc := psvc.New(deps.PG, prepo.NewPG(), psvc.Config{
		OwnerUserID: cfg.OwnerUserID,
		Thresholds:  cfg.Thresholds,
	}, injected.Recorder, injected.Reader)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPapersPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		phttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
