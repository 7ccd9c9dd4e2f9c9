package cluster

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const listLongDesc = `List the running containers of the cluster, the seed first.

Examples:
  # Table of seed and hosts
  box cluster list

  # Machine readable
  box cluster list --output json`

// NewListCmd creates the list command.
func NewListCmd(runtime *di.Runtime) *cobra.Command {
	format := OutputTable

	cmd := &cobra.Command{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List the cluster's containers",
		Long:         listLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Flags().VarP(&format, flagOutput, "o", "Output format (table, json, yaml)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return helpers.Run(cmd, runtime, helpers.RunOptions{Quiet: true}, helpers.WithOrchestrator(
			func(cmd *cobra.Command, orch *orchestrator.Orchestrator, _ *v1alpha1.Config) error {
				topology, err := orch.List(cmd.Context())
				if err != nil {
					return err
				}

				return writeTopology(cmd.OutOrStdout(), format, topology)
			}))
	}

	return cmd
}

func writeTopology(w io.Writer, format OutputFormat, topology v1alpha1.ClusterTopology) error {
	if topology.Hosts == nil {
		topology.Hosts = []v1alpha1.NodeRef{}
	}

	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(topology)
		if err != nil {
			return fmt.Errorf("failed to encode topology: %w", err)
		}

		return nil
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		err := encoder.Encode(topology)
		if err != nil {
			return fmt.Errorf("failed to encode topology: %w", err)
		}

		return encoder.Close()
	case OutputTable:
		return writeTable(w, topology)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
	}
}

func writeTable(w io.Writer, topology v1alpha1.ClusterTopology) error {
	nodes := topology.Nodes()
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "No containers running.")

		return err
	}

	table := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(table, "ROLE\tINDEX\tHOSTNAME\tIP\tCONTAINER")

	for _, node := range nodes {
		_, _ = fmt.Fprintf(table, "%s\t%d\t%s\t%s\t%s\n",
			node.Role, node.Index, node.Hostname, node.IP, node.ContainerName)
	}

	err := table.Flush()
	if err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	_, err = fmt.Fprintf(w, "\nOSD volumes: %d\n", topology.OSDs)

	return err
}
