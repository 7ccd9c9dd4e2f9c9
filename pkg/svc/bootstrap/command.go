package bootstrap

import (
	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
)

// Command is one `cephadm bootstrap` invocation.
type Command struct {
	// Cephadm is the path of the bootstrap tool.
	Cephadm string
	// MonIP is the seed's own address.
	MonIP string
	// BootstrapOutputs are the cluster id and the files bootstrap writes.
	v1alpha1.BootstrapOutputs

	SharedFolder      string
	DashboardPassword string

	SkipDashboard       bool
	SkipMonitoringStack bool
}

// NewCommand derives the bootstrap invocation from the configuration and the request.
func NewCommand(cfg *v1alpha1.Config, req v1alpha1.BootstrapRequest, cephadm, monIP string) Command {
	return Command{
		Cephadm:             cephadm,
		MonIP:               monIP,
		BootstrapOutputs:    cfg.Outputs(),
		SharedFolder:        cfg.Bootstrap.SharedFolder,
		DashboardPassword:   cfg.Bootstrap.DashboardPassword,
		SkipDashboard:       req.SkipDashboard,
		SkipMonitoringStack: req.SkipMonitoringStack,
	}
}

// Argv renders the invocation. The image is never pulled: it was loaded from the archive.
func (c Command) Argv() []string {
	argv := []string{
		c.Cephadm, "--verbose", "bootstrap",
		"--mon-ip", c.MonIP,
		"--allow-fqdn-hostname",
		"--initial-dashboard-password", c.DashboardPassword,
		"--dashboard-password-noupdate",
		"--shared_ceph_folder", c.SharedFolder,
		"--allow-overwrite",
		"--output-config", c.ConfigPath,
		"--output-keyring", c.KeyringPath,
		"--fsid", c.FSID,
		"--log-to-file",
	}

	if c.SkipDashboard {
		argv = append(argv, "--skip-dashboard")
	}

	if c.SkipMonitoringStack {
		argv = append(argv, "--skip-monitoring-stack")
	}

	return append(argv, "--skip-pull")
}

// Shell wraps administrative commands in `cephadm shell` bound to the bootstrapped cluster.
type Shell struct {
	Cephadm string
	v1alpha1.BootstrapOutputs
}

// NewShell returns the shell wrapper for the configured cluster. cephadm is looked up on PATH.
func NewShell(cfg *v1alpha1.Config) Shell {
	return Shell{
		Cephadm:          "cephadm",
		BootstrapOutputs: cfg.Outputs(),
	}
}

// Argv renders `cephadm shell ... -- args`.
func (s Shell) Argv(args ...string) []string {
	argv := []string{
		s.Cephadm, "shell",
		"--fsid", s.FSID,
		"--config", s.ConfigPath,
		"--keyring", s.KeyringPath,
		"--",
	}

	return append(argv, args...)
}

// Environment returns the variables the bootstrap tool reads.
func Environment(cfg *v1alpha1.Config) []string {
	return []string{
		v1alpha1.EnvCephSourceFolder + "=" + cfg.Bootstrap.SharedFolder,
		v1alpha1.EnvCephadmImage + "=" + cfg.Images.Ceph,
	}
}

// ProfileLine is the line persisted to the seed's shell profile so interactive
// shells deploy the same image.
func ProfileLine(cfg *v1alpha1.Config) string {
	return "export " + v1alpha1.EnvCephadmImage + "=" + cfg.Images.Ceph
}
