package helpers

import (
	"github.com/spf13/cobra"
)

// Global flag names.
const (
	FlagVerbose        = "verbose"
	FlagBoxDir         = "box-dir"
	FlagConfig         = "config"
	FlagCommandTimeout = "command-timeout"
	FlagMetricsFile    = "metrics-file"
)

// Bindings maps flag names to configuration keys.
type Bindings map[string]string

// globalBindings binds the persistent flags added by AddGlobalFlags.
func globalBindings() Bindings {
	return Bindings{
		FlagVerbose:        "verbose",
		FlagBoxDir:         "box-dir",
		FlagCommandTimeout: "command-timeout",
		FlagMetricsFile:    "metrics-file",
	}
}

// AddGlobalFlags registers the persistent flags every command understands.
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolP(FlagVerbose, "v", false, "Stream the output of every command run in the cluster")
	flags.String(FlagBoxDir, "",
		"Directory holding docker-compose.yml and the image build contexts (default: detected from the checkout)")
	flags.String(FlagConfig, "", "Config file (default: ./box.yaml)")
	flags.Duration(FlagCommandTimeout, 0, "Timeout for every command run in the cluster, 0 means none")
	flags.String(FlagMetricsFile, "", "Write step metrics to this prometheus textfile")
}
