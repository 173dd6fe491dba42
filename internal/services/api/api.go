// Package api provides the HTTP API for the application
package api

import (
	"codegap/internal/platform/config"
	"codegap/internal/platform/logger"
	phttp "codegap/internal/platform/net/http"
	"codegap/internal/platform/net/middleware"
	"codegap/internal/platform/store"

	"codegap/internal/modkit"
	"codegap/internal/modkit/httpkit"
	"codegap/internal/modkit/module"
	"codegap/internal/modkit/swaggerkit"

	papersmod "codegap/internal/services/api/papers/module"

	// Audit trail module (owns the Recorder and Reader ports)
	auditmod "codegap/internal/services/audit/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the audit module first and extract its ports
	audit := auditmod.New(deps)
	ap := module.MustPortsOf[auditmod.Ports](audit)

	// Inject the audit ports into the papers module
	papers := papersmod.New(
		deps,
		modkit.WithPorts(papersmod.Ports{
			Recorder: ap.Recorder,
			Reader:   ap.Reader,
		}),
	)

	mods := []module.Module{
		audit, // include audit so its ports are registered
		papers,
	}

	// identity comes from the trusted gateway header
	stack := append(httpkit.CommonStack(), httpkit.Auth(middleware.HeaderAuth{}))

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
