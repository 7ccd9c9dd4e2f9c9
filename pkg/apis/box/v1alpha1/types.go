package v1alpha1

import "time"

const (
	// Group is the API group for box.
	Group = "box.cephadm.dev"
	// Version is the API version for box.
	Version = "v1alpha1"
	// APIVersion is the full API version for box.
	APIVersion = Group + "/" + Version
)

// --- Configuration ---

// Config is the configuration value object built once per process and handed to every component.
type Config struct {
	// Verbose streams every transported command's output to the terminal.
	Verbose bool `json:"verbose,omitzero" mapstructure:"verbose"`

	// BoxDir is the directory holding docker-compose.yml, the Dockerfile and the docker/ build contexts.
	BoxDir string `json:"boxDir,omitzero" mapstructure:"box-dir" validate:"required"`
	// CommandTimeout bounds every transported command. Zero means unbounded.
	CommandTimeout time.Duration `json:"commandTimeout,omitzero" mapstructure:"command-timeout" validate:"gte=0"`
	// MetricsFile is an optional prometheus textfile the step metrics are written to.
	MetricsFile string `json:"metricsFile,omitzero" mapstructure:"metrics-file"`

	Cluster   ClusterOptions   `json:"cluster,omitzero"   mapstructure:"cluster"`
	Images    ImageOptions     `json:"images,omitzero"    mapstructure:"images"`
	Storage   StorageOptions   `json:"storage,omitzero"   mapstructure:"storage"`
	Compose   ComposeOptions   `json:"compose,omitzero"   mapstructure:"compose"`
	Bootstrap BootstrapOptions `json:"bootstrap,omitzero" mapstructure:"bootstrap"`
	SSH       SSHOptions       `json:"ssh,omitzero"       mapstructure:"ssh"`
}

// ClusterOptions holds the topology and skip flags of `box cluster`.
type ClusterOptions struct {
	OSDs                int  `json:"osds"                          mapstructure:"osds"                  validate:"gte=0"`
	Hosts               int  `json:"hosts"                         mapstructure:"hosts"                 validate:"gte=0"`
	SkipDeployOSDs      bool `json:"skipDeployOsds,omitzero"       mapstructure:"skip-deploy-osds"`
	SkipCreateLoop      bool `json:"skipCreateLoop,omitzero"       mapstructure:"skip-create-loop"`
	SkipMonitoringStack bool `json:"skipMonitoringStack,omitzero"  mapstructure:"skip-monitoring-stack"`
	SkipDashboard       bool `json:"skipDashboard,omitzero"        mapstructure:"skip-dashboard"`
	Expanded            bool `json:"expanded,omitzero"             mapstructure:"expanded"`
}

// ImageOptions names the two required images and the archive of the base image.
type ImageOptions struct {
	// Ceph is the base cluster image reference (name:tag).
	Ceph string `json:"ceph,omitzero"    mapstructure:"ceph"    validate:"required,contains=:"`
	// Box is the orchestrator box image reference (name:tag).
	Box string `json:"box,omitzero"     mapstructure:"box"     validate:"required,contains=:"`
	// Archive is the base image tar path, relative to BoxDir.
	Archive string `json:"archive,omitzero" mapstructure:"archive" validate:"required"`
}

// StorageOptions configures the loop-back volume group.
type StorageOptions struct {
	VolumeGroup string `json:"volumeGroup,omitzero" mapstructure:"volume-group" validate:"required"`
	// LoopImage is the sparse backing file, relative to BoxDir.
	LoopImage string `json:"loopImage,omitzero"   mapstructure:"loop-image"   validate:"required"`
	// GiBPerOSD is the space reserved per logical volume.
	GiBPerOSD int `json:"gibPerOsd,omitzero"   mapstructure:"gib-per-osd"  validate:"gt=0"`
}

// ComposeOptions configures the docker compose project.
type ComposeOptions struct {
	Project     string `json:"project,omitzero"     mapstructure:"project"      validate:"required"`
	SeedService string `json:"seedService,omitzero" mapstructure:"seed-service" validate:"required"`
	HostService string `json:"hostService,omitzero" mapstructure:"host-service" validate:"required"`
}

// BootstrapOptions configures the seed-side bootstrap.
type BootstrapOptions struct {
	FSID         string `json:"fsid,omitzero"         mapstructure:"fsid"          validate:"required,fsid"`
	ConfigFolder string `json:"configFolder,omitzero" mapstructure:"config-folder" validate:"required"`
	Config       string `json:"config,omitzero"       mapstructure:"config"        validate:"required"`
	Keyring      string `json:"keyring,omitzero"      mapstructure:"keyring"       validate:"required"`
	// CephadmSource is where the host's cephadm binary is mounted in the seed.
	CephadmSource string `json:"cephadmSource,omitzero" mapstructure:"cephadm-source" validate:"required"`
	// CephadmPath is where cephadm is exposed in the seed. Defaults to $CEPHADM_PATH.
	CephadmPath string `json:"cephadmPath,omitzero" mapstructure:"cephadm-path"`
	// ArchiveInSeed is the base image archive as seen from inside the seed.
	ArchiveInSeed string `json:"archiveInSeed,omitzero" mapstructure:"archive-in-seed" validate:"required"`
	// SharedFolder is the source tree mount shared by all containers.
	SharedFolder string `json:"sharedFolder,omitzero" mapstructure:"shared-folder" validate:"required"`
	// BoxBinary is the box executable inside the seed, the target of the bootstrap request.
	BoxBinary string `json:"boxBinary,omitzero" mapstructure:"box-binary" validate:"required"`
	// Marker is the file whose presence means "running inside the seed".
	Marker string `json:"marker,omitzero" mapstructure:"marker" validate:"required"`
	// DashboardPassword is the fixed initial dashboard admin password.
	DashboardPassword string `json:"dashboardPassword,omitzero" mapstructure:"dashboard-password" validate:"required"`
	// PublicKey is the cluster SSH public key written by the bootstrap tool.
	PublicKey string `json:"publicKey,omitzero" mapstructure:"public-key" validate:"required"`
}

// SSHOptions configures the SSH transport to host containers.
type SSHOptions struct {
	User     string `json:"user,omitzero"     mapstructure:"user"     validate:"required"`
	Password string `json:"password,omitzero" mapstructure:"password"`
	Port     int    `json:"port,omitzero"     mapstructure:"port"     validate:"gt=0,lte=65535"`
}

// --- Topology ---

// NodeRole distinguishes the seed from host nodes.
type NodeRole string

const (
	// RoleSeed is the single node owning the cluster's administrative state.
	RoleSeed NodeRole = "seed"
	// RoleHost is a worker/storage node.
	RoleHost NodeRole = "host"
)

// NodeRef identifies one running container of the topology.
type NodeRef struct {
	ContainerName string   `json:"containerName" yaml:"containerName"`
	IP            string   `json:"ip"            yaml:"ip"`
	Hostname      string   `json:"hostname"      yaml:"hostname"`
	Role          NodeRole `json:"role"          yaml:"role"`
	// Index is the compose container number (1-based).
	Index int `json:"index" yaml:"index"`
}

// ClusterTopology is the seed plus the ordered host nodes.
type ClusterTopology struct {
	Seed  *NodeRef  `json:"seed,omitempty" yaml:"seed,omitempty"`
	Hosts []NodeRef `json:"hosts"          yaml:"hosts"`
	OSDs  int       `json:"osds"           yaml:"osds"`
}

// Nodes returns the seed (when present) followed by the hosts.
func (t ClusterTopology) Nodes() []NodeRef {
	nodes := make([]NodeRef, 0, len(t.Hosts)+1)
	if t.Seed != nil {
		nodes = append(nodes, *t.Seed)
	}

	return append(nodes, t.Hosts...)
}

// HostIPs returns the IP of every host node in order.
func (t ClusterTopology) HostIPs() []string {
	ips := make([]string, 0, len(t.Hosts))
	for _, host := range t.Hosts {
		ips = append(ips, host.IP)
	}

	return ips
}

// --- Resources ---

// StorageVolumeSet is the loop-back volume group and its logical volumes.
type StorageVolumeSet struct {
	VolumeGroup    string   `json:"volumeGroup"`
	LogicalVolumes []string `json:"logicalVolumes"`
}

// Count returns the number of logical volumes.
func (s StorageVolumeSet) Count() int {
	return len(s.LogicalVolumes)
}

// ImageRecord is the local presence of one image.
type ImageRecord struct {
	Name    string
	Tag     string
	Present bool
}

// Reference returns name:tag.
func (r ImageRecord) Reference() string {
	return r.Name + ":" + r.Tag
}

// BootstrapOutputs are the files written by the seed bootstrap.
type BootstrapOutputs struct {
	FSID        string `json:"fsid"`
	ConfigPath  string `json:"configPath"`
	KeyringPath string `json:"keyringPath"`
}

// StartOptions are the inputs of `box cluster start`.
type StartOptions struct {
	OSDs                int
	Hosts               int
	SkipCreateLoop      bool
	SkipDeployOSDs      bool
	SkipDashboard       bool
	SkipMonitoringStack bool
	Expanded            bool
}
