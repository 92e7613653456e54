package engine

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// PluginEngine adapts an engine plugin binary, served through go-plugin, to shared.Engine.
// The plugin process lives from Initialize until Shutdown.
type PluginEngine struct {
	pluginsFolder string
	name          string
	logger        hclog.Logger

	client *plugin.Client
	remote shared.Engine
}

func NewPluginEngine(pluginsFolder, name string, logger hclog.Logger) *PluginEngine {
	return &PluginEngine{
		pluginsFolder: pluginsFolder,
		name:          name,
		logger:        logger,
	}
}

// Initialize starts the plugin process and initializes the remote engine.
// On failure the process is stopped before returning.
func (e *PluginEngine) Initialize() (bool, error) {
	if e.remote != nil {
		return true, nil
	}

	e.client = shared.NewPluginClient(e.pluginsFolder, e.name, e.logger.Named("plugin-engine"))
	remote, err := shared.DispenseEngine(e.client)
	if err != nil {
		e.kill()
		return false, fmt.Errorf("engine plugin %q: %w", e.name, err)
	}

	ok, err := remote.Initialize()
	if err != nil || !ok {
		e.kill()
		return false, err
	}

	e.remote = remote
	return true, nil
}

func (e *PluginEngine) Compile(opts shared.CompilerOptions) (shared.CompilationResult, error) {
	if e.remote == nil {
		return shared.CompilationResult{}, fmt.Errorf("engine plugin %q is not initialized", e.name)
	}
	return e.remote.Compile(opts)
}

// Shutdown releases the remote engine and stops the plugin process.
func (e *PluginEngine) Shutdown() error {
	if e.remote == nil {
		e.kill()
		return nil
	}
	err := e.remote.Shutdown()
	e.remote = nil
	e.kill()
	return err
}

func (e *PluginEngine) kill() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
	}
}
