package orchestrator_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/svc/compose"
	"github.com/devantler-tech/box/pkg/svc/metrics"
	"github.com/devantler-tech/box/pkg/svc/orchestrator"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const seedID = "box-seed-1"

// events is the global, ordered record of every side effect in a test.
type events struct {
	mu    sync.Mutex
	lines []string
}

func (e *events) add(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.lines...)
}

// first returns the position of the first event containing substr, or -1.
func (e *events) first(substr string) int {
	for i, line := range e.all() {
		if strings.Contains(line, substr) {
			return i
		}
	}

	return -1
}

// last returns the position of the last event containing substr, or -1.
func (e *events) last(substr string) int {
	lines := e.all()
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], substr) {
			return i
		}
	}

	return -1
}

func (e *events) count(substr string) int {
	n := 0

	for _, line := range e.all() {
		if strings.Contains(line, substr) {
			n++
		}
	}

	return n
}

type fakeImages struct {
	log *events

	base, box, archive bool
	buildErr           error
	loaded             []string
}

func (f *fakeImages) Exists(_ context.Context, ref string) (v1alpha1.ImageRecord, error) {
	name, tag, _ := strings.Cut(ref, ":")
	present := f.box
	if ref == v1alpha1.DefaultCephImage {
		present = f.base
	}

	return v1alpha1.ImageRecord{Name: name, Tag: tag, Present: present}, nil
}

func (f *fakeImages) EnsureBaseImage(context.Context) error {
	f.log.add("images: base")

	if f.buildErr != nil {
		return f.buildErr
	}

	f.base, f.archive = true, true

	return nil
}

func (f *fakeImages) EnsureBoxImage(context.Context) error {
	f.log.add("images: box")
	f.box = true

	return nil
}

func (f *fakeImages) ArchiveExists() bool { return f.archive }

func (f *fakeImages) RemoveArchive(context.Context) (bool, error) {
	f.log.add("images: remove archive")

	removed := f.archive
	f.archive = false

	return removed, nil
}

func (f *fakeImages) Load(_ context.Context, path string) error {
	f.log.add("images: load %s", path)
	f.loaded = append(f.loaded, path)

	return nil
}

func (f *fakeImages) CephImage() string { return v1alpha1.DefaultCephImage }

func (f *fakeImages) BoxImage() string { return v1alpha1.DefaultBoxImage }

type fakeStorage struct {
	log     *events
	volumes []string
	listErr error
}

func (f *fakeStorage) Create(_ context.Context, count int) (v1alpha1.StorageVolumeSet, error) {
	f.log.add("storage: create %d", count)

	f.volumes = nil
	for i := range count {
		f.volumes = append(f.volumes, fmt.Sprintf("lv%d", i))
	}

	return v1alpha1.StorageVolumeSet{VolumeGroup: "vg1", LogicalVolumes: f.volumes}, nil
}

func (f *fakeStorage) List(context.Context) (v1alpha1.StorageVolumeSet, error) {
	if f.listErr != nil {
		return v1alpha1.StorageVolumeSet{}, f.listErr
	}

	return v1alpha1.StorageVolumeSet{VolumeGroup: "vg1", LogicalVolumes: f.volumes}, nil
}

func (f *fakeStorage) Destroy(context.Context) error {
	f.log.add("storage: destroy")
	f.volumes = nil

	return nil
}

type fakeCompose struct {
	log     *events
	running bool
	hosts   int
	files   []string
	upErr   error
}

func (f *fakeCompose) Up(_ context.Context, hosts int, files []string) error {
	f.log.add("compose: up %d %s", hosts, strings.Join(files, ","))

	if f.upErr != nil {
		return f.upErr
	}

	f.running, f.hosts, f.files = true, hosts, files

	return nil
}

func (f *fakeCompose) Down(context.Context) error {
	f.log.add("compose: down")
	f.running, f.hosts = false, 0

	return nil
}

func (f *fakeCompose) Topology(_ context.Context, withSeed bool) (v1alpha1.ClusterTopology, error) {
	topology := v1alpha1.ClusterTopology{Hosts: []v1alpha1.NodeRef{}}
	if !f.running {
		return topology, nil
	}

	if withSeed {
		topology.Seed = &v1alpha1.NodeRef{
			ContainerName: seedID, IP: "172.18.0.2", Hostname: "seed", Role: v1alpha1.RoleSeed, Index: 1,
		}
	}

	for i := 1; i <= f.hosts; i++ {
		topology.Hosts = append(topology.Hosts, v1alpha1.NodeRef{
			ContainerName: fmt.Sprintf("box-hosts-%d", i),
			IP:            fmt.Sprintf("172.18.0.%d", 10+i),
			Hostname:      fmt.Sprintf("host%d", i),
			Role:          v1alpha1.RoleHost,
			Index:         i,
		})
	}

	return topology, nil
}

func (f *fakeCompose) Seed(context.Context) (string, error) {
	if !f.running {
		return "", compose.ErrNoSeed
	}

	return seedID, nil
}

func (f *fakeCompose) Host(_ context.Context, index int) (string, error) {
	if !f.running || index < 1 || index > f.hosts {
		return "", compose.ErrContainerNotFound
	}

	return fmt.Sprintf("box-hosts-%d", index), nil
}

type fakeEnv struct {
	log      *events
	inside   bool
	cgroupV2 bool
}

func (f *fakeEnv) InsideSeed() bool { return f.inside }

func (f *fakeEnv) CgroupV2() bool { return f.cgroupV2 }

func (f *fakeEnv) EnableForwarding(context.Context) error {
	f.log.add("env: forwarding")

	return nil
}

func (f *fakeEnv) EnsureLoopModule(context.Context) error {
	f.log.add("env: loop module")

	return nil
}

// loggedTransport records every command in the shared event log before delegating.
type loggedTransport struct {
	log   *events
	inner *transport.Fake
}

func (l loggedTransport) Name() string { return l.inner.Name() }

func (l loggedTransport) Run(ctx context.Context, cmd transport.Command) (transport.Result, error) {
	l.log.add("%s: %s", l.inner.Name(), cmd.String())

	return l.inner.Run(ctx, cmd)
}

type fakeTransports struct {
	log *events

	mu          sync.Mutex
	fakes       map[string]*transport.Fake
	interactive [][]string
}

// target returns the scripted fake for name, creating it on first use.
func (f *fakeTransports) target(name string) *transport.Fake {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fakes == nil {
		f.fakes = map[string]*transport.Fake{}
	}

	fake, ok := f.fakes[name]
	if !ok {
		fake = transport.NewFake(name)
		f.fakes[name] = fake
	}

	return fake
}

func (f *fakeTransports) Local() transport.Transport {
	return loggedTransport{log: f.log, inner: f.target("local")}
}

func (f *fakeTransports) Container(id string) transport.Transport {
	return loggedTransport{log: f.log, inner: f.target(id)}
}

func (f *fakeTransports) SSH(ip string) transport.Transport {
	return loggedTransport{log: f.log, inner: f.target("ssh://" + ip)}
}

func (f *fakeTransports) Interactive(_ context.Context, id string, argv []string) error {
	f.log.add("%s: interactive %s", id, strings.Join(argv, " "))

	f.mu.Lock()
	defer f.mu.Unlock()

	f.interactive = append(f.interactive, argv)

	return nil
}

type harness struct {
	cfg        *v1alpha1.Config
	log        *events
	images     *fakeImages
	storage    *fakeStorage
	compose    *fakeCompose
	env        *fakeEnv
	transports *fakeTransports
	fs         afero.Fs
	metrics    *metrics.Registry
	environ    map[string]string
	out        *strings.Builder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := &events{}

	h := &harness{
		cfg:        v1alpha1.NewConfig(),
		log:        log,
		images:     &fakeImages{log: log, base: true, box: true, archive: true},
		storage:    &fakeStorage{log: log},
		compose:    &fakeCompose{log: log},
		env:        &fakeEnv{log: log, cgroupV2: true},
		transports: &fakeTransports{log: log},
		fs:         afero.NewMemMapFs(),
		metrics:    metrics.NewRegistry(),
		environ:    map[string]string{},
		out:        &strings.Builder{},
	}

	h.seedFake().
		Stdout("cat "+v1alpha1.DefaultPublicKeyPath, "ssh-ed25519 AAAAkey ceph\n").
		Stdout("host ls", `[{"hostname":"seed","addr":"172.18.0.2"},{"hostname":"host1","addr":"172.18.0.11"}]`).
		Stdout("daemon add osd", "Created osd(s) 0 on host\n")

	return h
}

func (h *harness) orchestrator() *orchestrator.Orchestrator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return orchestrator.New(h.cfg, orchestrator.Deps{
		Images:     h.images,
		Storage:    h.storage,
		Compose:    h.compose,
		Env:        h.env,
		Transports: h.transports,
		FS:         h.fs,
		Metrics:    h.metrics,
		Out:        h.out,
		Logger:     logger,
		Getenv:     func(key string) string { return h.environ[key] },
		Setenv: func(key, value string) error {
			h.environ[key] = value

			return nil
		},
		HomeDir: "/root",
	})
}

func (h *harness) seedFake() *transport.Fake {
	return h.transports.target(seedID)
}

func (h *harness) localFake() *transport.Fake {
	return h.transports.target("local")
}
