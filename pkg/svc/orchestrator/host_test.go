package orchestrator_test

import (
	"testing"

	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSSHConfiguresHost(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 2

	require.NoError(t, h.orchestrator().SetupSSH(t.Context(), 2))

	host := h.transports.target("box-hosts-2")
	calls := host.Calls()

	require.Len(t, calls, 5)
	assert.Equal(t, "ssh-keygen -A", calls[0].Line())
	assert.Equal(t, "chpasswd", calls[1].Line())
	assert.Equal(t, "root:root\n", calls[1].Stdin)
	assert.Contains(t, calls[2].Line(), "grep -qxF 'PermitRootLogin yes'")
	assert.Contains(t, calls[3].Line(), "'PasswordAuthentication yes' >> /etc/ssh/sshd_config")
	assert.Equal(t, "systemctl restart sshd", calls[4].Line())
	assert.Empty(t, h.transports.target("box-hosts-1").Calls())
}

func TestSetupSSHFailsWhenHostKeysCannotBeGenerated(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 1
	h.transports.target("box-hosts-1").Fail("ssh-keygen", 1, "read-only file system")

	err := h.orchestrator().SetupSSH(t.Context(), 1)

	var exitErr *transport.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Result.ExitCode)
	assert.Contains(t, err.Error(), "failed to generate host keys on host 1")
	assert.Zero(t, h.transports.target("box-hosts-1").Count("chpasswd"))
	assert.Zero(t, h.transports.target("box-hosts-1").Count("systemctl restart sshd"))
}

func TestSetupSSHFailsOnUnknownHost(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 1

	err := h.orchestrator().SetupSSH(t.Context(), 3)

	require.ErrorIs(t, err, orchestrator.ErrHostNotFound)
}

func TestSetupSSHReportsRestartFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 1
	h.transports.target("box-hosts-1").Fail("systemctl restart sshd", 5, "unit not found")

	err := h.orchestrator().SetupSSH(t.Context(), 1)

	require.Error(t, err)
	assert.Equal(t, 5, transport.ExitCode(err))
}

func TestCopyClusterKeyWithoutHosts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running = true

	require.NoError(t, h.orchestrator().CopyClusterKey(t.Context()))
	assert.Equal(t, 1, h.seedFake().Count("cat /etc/ceph/ceph.pub"))
	assert.Equal(t, -1, h.log.first("ssh://"))
}

func TestAddHostsRunsThroughCephadmShell(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 2

	require.NoError(t, h.orchestrator().AddHosts(t.Context()))

	lines := h.seedFake().Lines()

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "cephadm shell --fsid")
	assert.Contains(t, lines[0], "-- ceph orch host add host1 172.18.0.11")
	assert.Contains(t, lines[1], "-- ceph orch host add host2 172.18.0.12")
}

func TestAddHostsStopsOnFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 2
	h.seedFake().Fail("host add host1", 22, "Failed to connect")

	err := h.orchestrator().AddHosts(t.Context())

	require.ErrorContains(t, err, "Failed to connect")
	assert.Zero(t, h.seedFake().Count("host add host2"))
}

func TestHostExecTargetsHostByIndex(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 2
	h.transports.target("ssh://172.18.0.12").Stdout("uname", "Linux\n")

	res, err := h.orchestrator().HostExec(t.Context(), 2, []string{"uname", "-a"})

	require.NoError(t, err)
	assert.Equal(t, "Linux\n", res.Stdout)
	assert.Empty(t, h.transports.target("ssh://172.18.0.11").Calls())
}

func TestHostExecUnknownIndex(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.running, h.compose.hosts = true, 1

	_, err := h.orchestrator().HostExec(t.Context(), 4, []string{"true"})

	require.ErrorIs(t, err, orchestrator.ErrHostNotFound)
}
