package v1alpha1

const (
	// DefaultOSDs is the default number of OSDs (and loop-back logical volumes).
	DefaultOSDs = 3
	// DefaultHosts is the default number of host containers.
	DefaultHosts = 2

	// DefaultCephImage is the base cluster image, pinned so the bootstrap tool never pulls.
	DefaultCephImage = "quay.ceph.io/ceph-ci/ceph:main"
	// DefaultBoxImage is the image every box container runs.
	DefaultBoxImage = "cephadm-box:latest"
	// DefaultImageArchive is the base image archive, relative to the box directory.
	DefaultImageArchive = "docker/ceph/image/quay.ceph.image.tar"
	// DefaultCephBuildContext is the build context of the derived base image.
	DefaultCephBuildContext = "docker/ceph"

	// DefaultVolumeGroup is the well-known volume group OSDs are deployed into.
	DefaultVolumeGroup = "vg1"
	// LogicalVolumePrefix prefixes the well-known logical volume names (lv0, lv1, ...).
	LogicalVolumePrefix = "lv"
	// DefaultLoopImage is the sparse backing file of the loop device.
	DefaultLoopImage = "loop-images/loop.img"
	// DefaultGiBPerOSD is the size reserved per logical volume.
	DefaultGiBPerOSD = 5

	// DefaultComposeProject is the compose project name of the box containers.
	DefaultComposeProject = "box"
	// DefaultSeedService is the compose service of the seed container.
	DefaultSeedService = "seed"
	// DefaultHostService is the compose service of the host containers.
	DefaultHostService = "hosts"

	// DefaultFSID is the fixed cluster fsid used for every bootstrap.
	DefaultFSID = "00000000-0000-0000-0000-0000deadbeef"
	// DefaultConfigFolder holds the generated config and keyring.
	DefaultConfigFolder = "/etc/ceph"
	// DefaultConfigPath is the generated admin config.
	DefaultConfigPath = "/etc/ceph/ceph.conf"
	// DefaultKeyringPath is the generated admin keyring.
	DefaultKeyringPath = "/etc/ceph/ceph.keyring"
	// DefaultPublicKeyPath is the cluster SSH public key generated by the bootstrap tool.
	DefaultPublicKeyPath = "/etc/ceph/ceph.pub"
	// DefaultCephadmSource is where the host's cephadm is mounted inside the seed.
	DefaultCephadmSource = "/cephadm/cephadm"
	// DefaultArchiveInSeed is the base image archive as mounted inside the seed.
	DefaultArchiveInSeed = "/cephadm/box/" + DefaultImageArchive
	// DefaultSharedFolder is the source tree shared with every container.
	DefaultSharedFolder = "/ceph"
	// DefaultBoxBinary is the box executable inside the seed.
	DefaultBoxBinary = "/cephadm/box/box"
	// DefaultMarker marks a box container.
	DefaultMarker = "/.box_container"
	// DefaultDashboardPassword is the fixed initial dashboard password.
	DefaultDashboardPassword = "admin"

	// DefaultSSHUser is the login user of host containers.
	DefaultSSHUser = "root"
	// DefaultSSHPassword is the password set on host containers during sshd setup.
	DefaultSSHPassword = "root"
	// DefaultSSHPort is the sshd port of host containers.
	DefaultSSHPort = 22

	// EnvCephadmPath names where cephadm is exposed inside the seed.
	EnvCephadmPath = "CEPHADM_PATH"
	// EnvCephadmImage pins the image the bootstrap tool deploys.
	EnvCephadmImage = "CEPHADM_IMAGE"
	// EnvCephSourceFolder points the bootstrap tool at the shared source tree.
	EnvCephSourceFolder = "CEPH_SOURCE_FOLDER"
)
