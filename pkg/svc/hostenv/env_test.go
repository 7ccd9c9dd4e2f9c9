package hostenv_test

import (
	"context"
	"io"
	"testing"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/hostenv"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, opts ...hostenv.Option) (*hostenv.Env, afero.Fs, *transport.Fake) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fs := afero.NewMemMapFs()
	local := transport.NewFake("local")

	opts = append([]hostenv.Option{hostenv.WithSudo(false), hostenv.WithGOOS("linux")}, opts...)

	return hostenv.New(fs, local, v1alpha1.NewConfig(), logger, opts...), fs, local
}

func TestInsideSeed(t *testing.T) {
	t.Parallel()

	env, fs, _ := newEnv(t)

	assert.False(t, env.InsideSeed())

	require.NoError(t, afero.WriteFile(fs, "/.box_container", nil, 0o600))

	assert.True(t, env.InsideSeed())
	assert.True(t, hostenv.InsideSeed(fs, v1alpha1.DefaultMarker))
	assert.False(t, hostenv.InsideSeed(fs, "/.other_marker"))
}

func TestCgroupV2(t *testing.T) {
	t.Parallel()

	env, fs, _ := newEnv(t)

	assert.False(t, env.CgroupV2())

	require.NoError(t, afero.WriteFile(fs, "/sys/fs/cgroup/cgroup.controllers", []byte("cpu io memory pids"), 0o600))

	assert.True(t, env.CgroupV2())
}

func TestEnableForwarding(t *testing.T) {
	t.Parallel()

	env, _, local := newEnv(t, hostenv.WithSudo(true))

	err := env.EnableForwarding(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"sudo -n sysctl net.ipv4.conf.all.forwarding=1",
		"sudo -n iptables -P FORWARD ACCEPT",
	}, local.Lines())
}

func TestEnableForwardingStopsOnFailure(t *testing.T) {
	t.Parallel()

	env, _, local := newEnv(t)
	local.Fail("sysctl", 255, "permission denied")

	err := env.EnableForwarding(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Zero(t, local.Count("iptables"))
}

func TestEnsureLoopModule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modules  string
		goos     string
		modprobe int
	}{
		{name: "already loaded", modules: "loop 40960 0 - Live 0x0\n", goos: "linux", modprobe: 0},
		{name: "not loaded", modules: "overlay 151552 12 - Live 0x0\n", goos: "linux", modprobe: 1},
		{name: "not linux", modules: "", goos: "darwin", modprobe: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env, fs, local := newEnv(t, hostenv.WithGOOS(tc.goos))
			require.NoError(t, afero.WriteFile(fs, "/proc/modules", []byte(tc.modules), 0o600))

			err := env.EnsureLoopModule(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.modprobe, local.Count("modprobe loop"))
		})
	}
}

func TestContainsModule(t *testing.T) {
	t.Parallel()

	modules := `loop 40960 0 - Live 0x0000000000000000
overlay 151552 12 - Live 0x0000000000000000
br_netfilter 32768 0 - Live 0x0000000000000000`

	assert.True(t, hostenv.ContainsModule(modules, "loop"))
	assert.True(t, hostenv.ContainsModule(modules, "br_netfilter"))
	assert.False(t, hostenv.ContainsModule(modules, "br"))
	assert.False(t, hostenv.ContainsModule("", "loop"))
}
