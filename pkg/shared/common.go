package shared

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	PluginTypeEngine string = "engine"
)

// Versions holds build information of the core binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CSPROCOMPILE",
	MagicCookieValue: "7d0c4b1e9a3f42d6b8e5c2a19f6d30b4e1a7c9d2",
}

var PluginMap = map[string]plugin.Plugin{
	PluginTypeEngine: &EnginePlugin{},
}

// PluginPath returns the location of the plugin binary: <pluginsFolder>/<name>/<name>.
// The plugin folder also carries the plugin's VERSION file.
func PluginPath(pluginsFolder, pluginName string) string {
	return filepath.Join(pluginsFolder, pluginName, pluginName)
}

// NewPluginClient prepares a go-plugin client for the plugin pluginName inside pluginsFolder.
// The plugin process is not started until the client is used.
func NewPluginClient(pluginsFolder, pluginName string, logger hclog.Logger) *plugin.Client {
	pluginPath := PluginPath(pluginsFolder, pluginName)
	return plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap,
		Cmd:              exec.Command(pluginPath),
		Logger:           logger,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	})
}

// DispenseEngine starts the plugin process behind client and returns its Engine.
func DispenseEngine(client *plugin.Client) (Engine, error) {
	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("failed to start engine plugin: %w", err)
	}

	raw, err := rpcClient.Dispense(PluginTypeEngine)
	if err != nil {
		return nil, fmt.Errorf("failed to dispense engine plugin: %w", err)
	}

	engine, ok := raw.(Engine)
	if !ok {
		return nil, fmt.Errorf("invalid plugin type %T", raw)
	}
	return engine, nil
}

// ServeEngine runs impl as an engine plugin. It blocks until the host disconnects.
func ServeEngine(impl Engine, logger hclog.Logger) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			PluginTypeEngine: &EnginePlugin{Impl: impl},
		},
		Logger: logger,
	})
}
