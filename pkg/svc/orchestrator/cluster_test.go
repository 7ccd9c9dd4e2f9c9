package orchestrator_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/compose"
	"github.com/devantler-tech/box/pkg/svc/metrics"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lvsReport(volumes ...string) string {
	report := `{"report":[{"lv":[`

	for i, volume := range volumes {
		if i > 0 {
			report += ","
		}

		report += `{"lv_name":"` + volume + `","vg_name":"vg1"}`
	}

	return report + `]}]}`
}

func TestStartBringsUpSeedAndHosts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	orch := h.orchestrator()

	err := orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: 3, Hosts: 2})

	require.NoError(t, err)

	topology, err := orch.List(t.Context())

	require.NoError(t, err)
	require.NotNil(t, topology.Seed)
	assert.Len(t, topology.Hosts, 2)
	assert.Len(t, topology.Nodes(), 3)
	assert.Equal(t, []string{"lv0", "lv1", "lv2"}, h.storage.volumes)
}

func TestStartRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	err := h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 2, Hosts: 2})

	require.NoError(t, err)

	ordered := []string{
		"compose: down",
		"env: loop module",
		"storage: create 2",
		"compose: up 2 " + compose.FileBase,
		"env: forwarding",
	}

	for i := 1; i < len(ordered); i++ {
		assert.Less(t, h.log.first(ordered[i-1]), h.log.first(ordered[i]), ordered[i])
	}

	bootstrap := h.log.first(seedID + ": " + v1alpha1.DefaultBoxBinary + " cluster bootstrap --request -")
	require.GreaterOrEqual(t, bootstrap, 0)
	assert.Less(t, h.log.first("env: forwarding"), h.log.first("systemctl restart sshd"))
	assert.Less(t, h.log.last("systemctl restart sshd"), bootstrap)
	assert.Less(t, bootstrap, h.log.first("ssh://"))
	assert.Equal(t, 2, h.log.count("systemctl restart sshd"))
	assert.Equal(t, 0, h.log.count("ceph orch host add"))
}

func TestStartSendsBootstrapRequest(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cfg.Verbose = true

	opts := v1alpha1.StartOptions{OSDs: 1, Hosts: 1, SkipDashboard: true}

	require.NoError(t, h.orchestrator().Start(t.Context(), opts))

	var request string

	for _, call := range h.seedFake().Calls() {
		if call.Line() == v1alpha1.DefaultBoxBinary+" -v cluster bootstrap --request -" {
			request = call.Stdin
		}
	}

	require.NotEmpty(t, request)

	decoded, err := v1alpha1.DecodeBootstrapRequest(strings.NewReader(request))

	require.NoError(t, err)
	assert.Equal(t, v1alpha1.NewBootstrapRequest(opts, true), decoded)
}

func TestStartInstallsClusterKeyOnEveryHost(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	require.NoError(t, h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 2}))

	for _, ip := range []string{"172.18.0.11", "172.18.0.12"} {
		calls := h.transports.target("ssh://" + ip).Calls()

		require.Len(t, calls, 1, ip)
		assert.Contains(t, calls[0].Line(), "authorized_keys")
		assert.Equal(t, "ssh-ed25519 AAAAkey ceph\n", calls[0].Stdin)
	}
}

func TestStartUsesCgroupV1ComposeFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.env.cgroupV2 = false

	require.NoError(t, h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 1}))

	assert.Equal(t, []string{compose.FileBase, compose.FileCgroup1}, h.compose.files)
}

func TestStartExpandedAddsHostsBeforeDeployingOSDs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedFake().Stdout("lvs --reportformat json", lvsReport("lv0", "lv1", "lv2"))

	opts := v1alpha1.StartOptions{OSDs: 3, Hosts: 2, Expanded: true}

	require.NoError(t, h.orchestrator().Start(t.Context(), opts))

	assert.Equal(t, 2, h.log.count("ceph orch host add"))
	assert.Equal(t, 3, h.log.count("ceph orch daemon add osd"))
	assert.Less(t, h.log.last("ceph orch host add"), h.log.first("ceph orch daemon add osd"))

	assert.Positive(t, h.log.first("ceph orch host add host1 172.18.0.11"))
	assert.Positive(t, h.log.first("ceph orch daemon add osd seed:vg1/lv0"))
	assert.Positive(t, h.log.first("ceph orch daemon add osd host1:vg1/lv1"))
	assert.Positive(t, h.log.first("ceph orch daemon add osd seed:vg1/lv2"))
}

func TestStartSkipDeployOSDsNeverDeploys(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	opts := v1alpha1.StartOptions{OSDs: 3, Hosts: 2, Expanded: true, SkipDeployOSDs: true}

	require.NoError(t, h.orchestrator().Start(t.Context(), opts))

	assert.Equal(t, 2, h.log.count("ceph orch host add"))
	assert.Zero(t, h.log.count("daemon add osd"))
	assert.Zero(t, h.log.count("lvs"))
}

func TestStartJoinsHostsWithoutStorageOrOSDs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	orch := h.orchestrator()

	require.NoError(t, orch.Start(t.Context(), v1alpha1.StartOptions{
		OSDs: 0, Hosts: 2, SkipCreateLoop: true, Expanded: true, SkipDeployOSDs: true,
	}))

	assert.Equal(t, -1, h.log.first("storage: create"))
	assert.Equal(t, 2, h.log.count("ceph orch host add"))
	assert.Positive(t, h.log.first("ceph orch host add host1 172.18.0.11"))
	assert.Positive(t, h.log.first("ceph orch host add host2 172.18.0.12"))
	assert.Zero(t, h.log.count("daemon add osd"))

	topology, err := orch.List(t.Context())

	require.NoError(t, err)
	assert.Len(t, topology.Hosts, 2)
	assert.NotNil(t, topology.Seed)
	assert.Zero(t, topology.OSDs)
}

func TestStartCreatesOneVolumePerOSD(t *testing.T) {
	t.Parallel()

	for _, osds := range []int{0, 1, 3, 7} {
		t.Run(strconv.Itoa(osds), func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			orch := h.orchestrator()

			require.NoError(t, orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: osds, Hosts: 1}))

			topology, err := orch.List(t.Context())

			require.NoError(t, err)
			assert.Equal(t, osds, topology.OSDs)
			assert.Len(t, h.storage.volumes, osds)
		})
	}
}

func TestListReportsVolumeFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.storage.listErr = errors.New("lvs: permission denied")

	_, err := h.orchestrator().List(t.Context())

	require.ErrorContains(t, err, "failed to list volumes: lvs: permission denied")
}

func TestStartSkipCreateLoopLeavesStorageAlone(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	require.NoError(t, h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{
		OSDs: 3, Hosts: 1, SkipCreateLoop: true,
	}))

	assert.Equal(t, -1, h.log.first("storage: create"))
	assert.Equal(t, -1, h.log.first("env: loop module"))
}

func TestStartRejectsOSDsWithoutVolumes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts v1alpha1.StartOptions
	}{
		{"skip create loop", v1alpha1.StartOptions{OSDs: 3, Hosts: 1, Expanded: true, SkipCreateLoop: true}},
		{"zero osds", v1alpha1.StartOptions{OSDs: 0, Hosts: 1, Expanded: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)

			err := h.orchestrator().Start(t.Context(), tc.opts)

			require.ErrorIs(t, err, orchestrator.ErrOSDsWithoutVolumes)
			assert.Empty(t, h.log.all())
		})
	}
}

func TestValidateAcceptsSkippedDeployment(t *testing.T) {
	t.Parallel()

	require.NoError(t, orchestrator.Validate(v1alpha1.StartOptions{
		Expanded: true, SkipDeployOSDs: true, SkipCreateLoop: true,
	}))
	require.NoError(t, orchestrator.Validate(v1alpha1.StartOptions{OSDs: 0, Hosts: 0}))
	require.ErrorIs(t, orchestrator.Validate(v1alpha1.StartOptions{Hosts: -1}), v1alpha1.ErrNegativeCount)
}

func TestStartRebuildsMissingImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		base, box, archive bool
		want               []string
	}{
		{"all present", true, true, true, nil},
		{"archive missing", true, true, false, []string{"images: base"}},
		{"base missing", false, true, true, []string{"images: base"}},
		{"box missing", true, false, true, []string{"images: box"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.images.base, h.images.box, h.images.archive = tc.base, tc.box, tc.archive

			require.NoError(t, h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 1}))

			var built []string

			for _, line := range h.log.all() {
				if line == "images: base" || line == "images: box" {
					built = append(built, line)
				}
			}

			assert.Equal(t, tc.want, built)
		})
	}
}

func TestStartAbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.compose.upErr = errors.New("compose up failed")

	err := h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 1})

	require.ErrorContains(t, err, "compose up failed")
	assert.Equal(t, -1, h.log.first("env: forwarding"))
	assert.Equal(t, -1, h.log.first("sshd"))
	assert.InDelta(t, 1, testutil.ToFloat64(
		h.metrics.StepsTotal.WithLabelValues(orchestrator.StepUp, metrics.ResultFailure),
	), 0)
}

func TestStartRecordsStepMetrics(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	require.NoError(t, h.orchestrator().Start(t.Context(), v1alpha1.StartOptions{OSDs: 2, Hosts: 3}))

	assert.InDelta(t, 1, testutil.ToFloat64(
		h.metrics.StepsTotal.WithLabelValues(orchestrator.StepBootstrap, metrics.ResultSuccess),
	), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(h.metrics.ClusterHosts), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(h.metrics.ClusterOSDs), 0)
}

func TestStartIsRerunnable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	orch := h.orchestrator()

	require.NoError(t, orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 3}))
	require.NoError(t, orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 1}))

	topology, err := orch.List(t.Context())

	require.NoError(t, err)
	assert.Len(t, topology.Hosts, 1)
	assert.Equal(t, 2, h.log.count("compose: down"))
}

func TestDownThenListIsEmpty(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	orch := h.orchestrator()

	require.NoError(t, orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: 2, Hosts: 2}))
	require.NoError(t, orch.Down(t.Context()))

	topology, err := orch.List(t.Context())

	require.NoError(t, err)
	assert.Empty(t, topology.Nodes())
	assert.Empty(t, h.storage.volumes)
	assert.False(t, h.images.archive)
}

func TestDownAndCleanupSucceedOnEmptyState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.images.archive = false
	orch := h.orchestrator()

	require.NoError(t, orch.Down(t.Context()))
	require.NoError(t, orch.Cleanup(t.Context()))
	require.NoError(t, orch.Down(t.Context()))

	assert.Less(t, h.log.first("storage: destroy"), h.log.first("images: remove archive"))
}

func TestSetupIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.images.base, h.images.box, h.images.archive = false, false, false
	orch := h.orchestrator()

	require.NoError(t, orch.Setup(t.Context()))
	require.NoError(t, orch.Setup(t.Context()))

	assert.True(t, h.images.base)
	assert.True(t, h.images.box)
	assert.True(t, h.images.archive)
	assert.Equal(t, []string{"images: base", "images: box", "images: base", "images: box"}, h.log.all())
}

func TestSetupStopsOnBaseImageFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.images.buildErr = errors.New("pull denied")

	err := h.orchestrator().Setup(t.Context())

	require.ErrorContains(t, err, "pull denied")
	assert.Equal(t, -1, h.log.first("images: box"))
}

func TestShellAttachesToSeed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	orch := h.orchestrator()

	require.ErrorIs(t, orch.Shell(t.Context()), compose.ErrNoSeed)

	h.compose.running = true

	require.NoError(t, orch.Shell(t.Context()))
	assert.Equal(t, [][]string{{"bash"}}, h.transports.interactive)
}

func TestHostOperationsRefuseToRunInsideSeed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.env.inside = true
	orch := h.orchestrator()

	_, listErr := orch.List(t.Context())
	_, loopErr := orch.CreateLoop(t.Context(), 1)
	_, execErr := orch.HostExec(t.Context(), 1, []string{"true"})

	for name, err := range map[string]error{
		"setup":    orch.Setup(t.Context()),
		"cleanup":  orch.Cleanup(t.Context()),
		"start":    orch.Start(t.Context(), v1alpha1.StartOptions{OSDs: 1, Hosts: 1}),
		"down":     orch.Down(t.Context()),
		"list":     listErr,
		"sh":       orch.Shell(t.Context()),
		"ssh":      orch.SetupSSH(t.Context(), 1),
		"copy-key": orch.CopyClusterKey(t.Context()),
		"add":      orch.AddHosts(t.Context()),
		"loop":     loopErr,
		"exec":     execErr,
	} {
		require.ErrorIs(t, err, orchestrator.ErrMustRunOutside, name)
	}

	assert.Empty(t, h.log.all())
}
