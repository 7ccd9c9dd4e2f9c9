package configmanager

import (
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read as configuration.
	EnvPrefix = "BOX"
	// ConfigName is the base name of the optional config file (box.yaml).
	ConfigName = "box"
)

// InitializeViper returns a viper instance reading box.yaml from the working
// directory and BOX_* variables from the environment.
func InitializeViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	return v
}

// defaults lists every configuration key. Keys without a default would not
// be picked up from the environment by Unmarshal.
func defaults() map[string]any {
	cfg := v1alpha1.NewConfig()

	return map[string]any{
		"verbose":         false,
		"box-dir":         "",
		"command-timeout": cfg.CommandTimeout,
		"metrics-file":    "",

		"cluster.osds":                  cfg.Cluster.OSDs,
		"cluster.hosts":                 cfg.Cluster.Hosts,
		"cluster.skip-deploy-osds":      false,
		"cluster.skip-create-loop":      false,
		"cluster.skip-monitoring-stack": false,
		"cluster.skip-dashboard":        false,
		"cluster.expanded":              false,

		"images.ceph":    cfg.Images.Ceph,
		"images.box":     cfg.Images.Box,
		"images.archive": cfg.Images.Archive,

		"storage.volume-group": cfg.Storage.VolumeGroup,
		"storage.loop-image":   cfg.Storage.LoopImage,
		"storage.gib-per-osd":  cfg.Storage.GiBPerOSD,

		"compose.project":      cfg.Compose.Project,
		"compose.seed-service": cfg.Compose.SeedService,
		"compose.host-service": cfg.Compose.HostService,

		"bootstrap.fsid":               cfg.Bootstrap.FSID,
		"bootstrap.config-folder":      cfg.Bootstrap.ConfigFolder,
		"bootstrap.config":             cfg.Bootstrap.Config,
		"bootstrap.keyring":            cfg.Bootstrap.Keyring,
		"bootstrap.cephadm-source":     cfg.Bootstrap.CephadmSource,
		"bootstrap.cephadm-path":       "",
		"bootstrap.archive-in-seed":    cfg.Bootstrap.ArchiveInSeed,
		"bootstrap.shared-folder":      cfg.Bootstrap.SharedFolder,
		"bootstrap.box-binary":         cfg.Bootstrap.BoxBinary,
		"bootstrap.marker":             cfg.Bootstrap.Marker,
		"bootstrap.dashboard-password": cfg.Bootstrap.DashboardPassword,
		"bootstrap.public-key":         cfg.Bootstrap.PublicKey,

		"ssh.user":     cfg.SSH.User,
		"ssh.password": cfg.SSH.Password,
		"ssh.port":     cfg.SSH.Port,
	}
}
