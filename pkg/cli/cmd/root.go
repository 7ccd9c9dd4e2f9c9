package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/box/pkg/cli/cmd/cluster"
	"github.com/devantler-tech/box/pkg/cli/cmd/host"
	"github.com/devantler-tech/box/pkg/cli/cmd/osd"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return newRootCmd(di.NewRuntime(), version, commit, date)
}

func newRootCmd(runtime *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Simulate a storage cluster with containers",
		Long: `box runs a storage cluster on one machine: a seed container and a number of
host containers started with docker compose, bootstrapped with cephadm and
backed by loop-back volumes.

Most commands run on the machine hosting the containers. 'box cluster
bootstrap' runs inside the seed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	helpers.AddGlobalFlags(cmd)

	cmd.AddCommand(cluster.NewClusterCmd(runtime))
	cmd.AddCommand(osd.NewOSDCmd(runtime))
	cmd.AddCommand(host.NewHostCmd(runtime))

	return cmd
}

// Execute runs the provided root command under ctx and returns any error.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	err := errorhandler.NewExecutor().Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}
