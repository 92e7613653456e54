// Package engine provides the compiler engine variants and the factory selecting one of them.
package engine

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/internal/config"
	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// Factory creates the engine for one compilation job.
type Factory func() (shared.Engine, error)

// NewFactory returns a factory for the engine selected in cfg: the stub engine for "null",
// otherwise the engine plugin of that name from the plugins folder.
func NewFactory(cfg *config.Config, logger hclog.Logger) Factory {
	name := config.GetEngineName(cfg)
	return func() (shared.Engine, error) {
		if name == config.EngineNull {
			return NewNullEngine(logger), nil
		}
		pluginsFolder := config.GetPluginsFolder(cfg)
		if pluginsFolder == "" {
			return nil, fmt.Errorf("plugins folder is not configured for engine %q", name)
		}
		return NewPluginEngine(pluginsFolder, name, logger), nil
	}
}

// Static returns a factory that always hands out e.
func Static(e shared.Engine) Factory {
	return func() (shared.Engine, error) {
		return e, nil
	}
}
