// Package module wires the audit trail service and exposes its ports
package module

import (
	"codegap/internal/modkit"
	"codegap/internal/modkit/httpkit"
	"codegap/internal/services/audit/domain"
	"codegap/internal/services/audit/service"
)

// Ports are the audit module's cross-module ports
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
}

// Module defines the audit worker module. It exposes ports only, no routes
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the audit module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.CH)
	m := &Module{deps: deps}
	m.ports = Ports{
		Recorder: svc,
		Reader:   svc,
	}
	return m
}

// Ports returns the module ports (Recorder, Reader)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "audit" }

// Prefix returns the module config prefix (none for a port-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
