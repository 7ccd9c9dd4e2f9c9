package osd_test

import (
	"bytes"
	"testing"

	"github.com/devantler-tech/box/pkg/cli/cmd/osd"
	"github.com/devantler-tech/box/pkg/cli/helpers"
	"github.com/devantler-tech/box/pkg/di"
	"github.com/devantler-tech/box/pkg/io/configmanager"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, runtime *di.Runtime, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := &cobra.Command{Use: "box", SilenceUsage: true, SilenceErrors: true}
	helpers.AddGlobalFlags(root)
	root.AddCommand(osd.NewOSDCmd(runtime))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())

	return out.String(), err
}

func TestDeployDataNeedsHostname(t *testing.T) {
	t.Parallel()

	called := false
	runtime := di.New(func(di.Injector) error {
		called = true

		return nil
	})

	_, err := run(t, runtime, "osd", "deploy", "--data", "vg1/lv0")

	require.ErrorIs(t, err, osd.ErrDataWithoutHostname)
	assert.False(t, called)
}

func TestDeployNeedsOrchestrator(t *testing.T) {
	t.Parallel()

	_, err := run(t, di.New(), "osd", "deploy", "--vg", "vg2", "--box-dir", t.TempDir())

	require.ErrorContains(t, err, "resolve orchestrator dependency")
}

func TestCreateLoopRejectsNegativeCount(t *testing.T) {
	t.Parallel()

	_, err := run(t, di.New(), "osd", "create-loop", "--osds", "-2", "--box-dir", t.TempDir())

	require.ErrorIs(t, err, configmanager.ErrInvalidConfig)
}

func TestOSDHelp(t *testing.T) {
	t.Parallel()

	out, err := run(t, di.New(), "osd", "deploy", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "--vg")
	assert.Contains(t, out, "--data")
	assert.Contains(t, out, "--hostname")
}
