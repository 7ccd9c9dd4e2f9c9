package helpers

import (
	"github.com/devantler-tech/box/pkg/di"
	"github.com/spf13/cobra"
)

// Streams returns the command's input and output streams.
func Streams(cmd *cobra.Command) di.Streams {
	return di.Streams{
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}
}
