package version

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cspro-tools/csprocompile/internal/config"
	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// Overridden at build time via -ldflags.
var (
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

var AppConfig *config.Config

// CoreVersions holds version information for the core application and engine plugins.
type CoreVersions struct {
	Versions    shared.Versions       `json:"versions"`
	PluginsMeta map[string]PluginMeta `json:"plugins_meta"`
}

// PluginMeta is the content of a plugin's VERSION file.
type PluginMeta struct {
	Version    string `json:"version"`
	PluginType string `json:"plugin_type"`
}

var unknownPlugin = PluginMeta{Version: "unknown", PluginType: "unknown"}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		Args:                  cobra.NoArgs,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and engine plugins",
		Run: func(cmd *cobra.Command, args []string) {
			version := CoreVersions{
				Versions: shared.Versions{
					Version:       CoreVersion,
					GolangVersion: GolangVersion,
					BuildTime:     BuildTime,
				},
				PluginsMeta: getPluginVersions(config.GetPluginsFolder(AppConfig)),
			}
			printVersionInfo(cmd.OutOrStdout(), &version)
		},
	}
}

// readVersionFile reads and parses the version file as JSON.
func readVersionFile(versionFilePath string) PluginMeta {
	var pm PluginMeta
	data, err := os.ReadFile(versionFilePath)
	if err != nil {
		return unknownPlugin
	}
	if err := json.Unmarshal(data, &pm); err != nil {
		return unknownPlugin
	}
	return pm
}

// getPluginVersions reads the VERSION file of every plugin folder in pluginsDir.
// A missing plugins folder yields no plugins.
func getPluginVersions(pluginsDir string) map[string]PluginMeta {
	pluginsMeta := make(map[string]PluginMeta)
	if pluginsDir == "" {
		return pluginsMeta
	}
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return pluginsMeta
	}
	for _, entry := range entries {
		if entry.IsDir() {
			pluginName := entry.Name()
			pluginsMeta[pluginName] = readVersionFile(filepath.Join(pluginsDir, pluginName, "VERSION"))
		}
	}
	return pluginsMeta
}

func printVersionInfo(w io.Writer, versions *CoreVersions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	if len(versions.PluginsMeta) == 0 {
		fmt.Fprintln(w, "Plugin Versions: none installed")
	} else {
		fmt.Fprintln(w, "Plugin Versions:")
		names := make([]string, 0, len(versions.PluginsMeta))
		for name := range versions.PluginsMeta {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			meta := versions.PluginsMeta[name]
			fmt.Fprintf(w, "  %s: v%s (Type: %s)\n", name, meta.Version, meta.PluginType)
		}
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
}
