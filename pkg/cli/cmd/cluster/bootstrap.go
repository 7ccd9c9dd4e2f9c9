package cluster

import (
	"fmt"
	"io"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/hostenv"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// stdinRequest reads the bootstrap request from standard input.
const stdinRequest = "-"

const bootstrapLongDesc = `Bootstrap the first monitor of the cluster.

Runs inside the seed container. 'box cluster start' invokes it there with the
request on standard input; the request carries the start options. Without
--request the options come from the configuration.

Examples:
  # What start runs inside the seed
  box cluster bootstrap --request -

  # Bootstrap by hand from a shell in the seed
  box cluster bootstrap --skip-dashboard`

// NewBootstrapCmd creates the bootstrap command.
func NewBootstrapCmd(runtime *di.Runtime) *cobra.Command {
	var request string

	cmd := &cobra.Command{
		Use:          "bootstrap",
		Short:        "Bootstrap the cluster from inside the seed",
		Long:         bootstrapLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	defaults := v1alpha1.NewConfig().Cluster

	flags := cmd.Flags()
	flags.StringVar(&request, flagRequest, "", "Read the bootstrap request from a file, or - for standard input")
	flags.Int(flagOSDs, defaults.OSDs, "Number of OSDs the cluster is bootstrapped for")
	flags.Int(flagHosts, defaults.Hosts, "Number of hosts the cluster is bootstrapped for")
	flags.Bool(flagSkipMonitoringStack, false, "Bootstrap without the monitoring stack")
	flags.Bool(flagSkipDashboard, false, "Bootstrap without the dashboard")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return helpers.Run(cmd, runtime, helpers.RunOptions{Bindings: startBindings()},
			func(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config) error {
				return runBootstrap(cmd, injector, cfg, request)
			})
	}

	return cmd
}

func runBootstrap(cmd *cobra.Command, injector di.Injector, cfg *v1alpha1.Config, request string) error {
	fs, err := di.ResolveFs(injector)
	if err != nil {
		return err
	}

	if !hostenv.InsideSeed(fs, cfg.Bootstrap.Marker) {
		return orchestrator.ErrMustRunInside
	}

	req, err := readRequest(fs, cmd.InOrStdin(), request, cfg)
	if err != nil {
		return err
	}

	// The logger is built lazily, so the request can still turn on debug output.
	cfg.Verbose = cfg.Verbose || req.Verbose

	orch, err := di.ResolveOrchestrator(injector)
	if err != nil {
		return err
	}

	cmd.Println()
	notify.Titlef(cmd.OutOrStdout(), "🥾", "Bootstrap cluster...")

	err = orch.Bootstrap(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to bootstrap cluster: %w", err)
	}

	return nil
}

// readRequest decodes the request from stdin or a file, or builds it from cfg
// when no source is given.
func readRequest(fs afero.Fs, stdin io.Reader, source string, cfg *v1alpha1.Config) (v1alpha1.BootstrapRequest, error) {
	switch source {
	case "":
		return v1alpha1.NewBootstrapRequest(cfg.StartOptions(), cfg.Verbose), nil
	case stdinRequest:
		return v1alpha1.DecodeBootstrapRequest(stdin)
	}

	file, err := fs.Open(source)
	if err != nil {
		return v1alpha1.BootstrapRequest{}, fmt.Errorf("failed to open bootstrap request: %w", err)
	}

	defer func() { _ = file.Close() }()

	return v1alpha1.DecodeBootstrapRequest(file)
}
