package v1alpha1

// NewConfig returns a Config populated with every default.
func NewConfig() *Config {
	return &Config{
		BoxDir: ".",
		Cluster: ClusterOptions{
			OSDs:  DefaultOSDs,
			Hosts: DefaultHosts,
		},
		Images: ImageOptions{
			Ceph:    DefaultCephImage,
			Box:     DefaultBoxImage,
			Archive: DefaultImageArchive,
		},
		Storage: StorageOptions{
			VolumeGroup: DefaultVolumeGroup,
			LoopImage:   DefaultLoopImage,
			GiBPerOSD:   DefaultGiBPerOSD,
		},
		Compose: ComposeOptions{
			Project:     DefaultComposeProject,
			SeedService: DefaultSeedService,
			HostService: DefaultHostService,
		},
		Bootstrap: BootstrapOptions{
			FSID:              DefaultFSID,
			ConfigFolder:      DefaultConfigFolder,
			Config:            DefaultConfigPath,
			Keyring:           DefaultKeyringPath,
			CephadmSource:     DefaultCephadmSource,
			ArchiveInSeed:     DefaultArchiveInSeed,
			SharedFolder:      DefaultSharedFolder,
			BoxBinary:         DefaultBoxBinary,
			Marker:            DefaultMarker,
			DashboardPassword: DefaultDashboardPassword,
			PublicKey:         DefaultPublicKeyPath,
		},
		SSH: SSHOptions{
			User:     DefaultSSHUser,
			Password: DefaultSSHPassword,
			Port:     DefaultSSHPort,
		},
	}
}

// StartOptions derives the start inputs from the cluster options.
func (c *Config) StartOptions() StartOptions {
	return StartOptions{
		OSDs:                c.Cluster.OSDs,
		Hosts:               c.Cluster.Hosts,
		SkipCreateLoop:      c.Cluster.SkipCreateLoop,
		SkipDeployOSDs:      c.Cluster.SkipDeployOSDs,
		SkipDashboard:       c.Cluster.SkipDashboard,
		SkipMonitoringStack: c.Cluster.SkipMonitoringStack,
		Expanded:            c.Cluster.Expanded,
	}
}

// Outputs returns where the seed bootstrap writes its results.
func (c *Config) Outputs() BootstrapOutputs {
	return BootstrapOutputs{
		FSID:        c.Bootstrap.FSID,
		ConfigPath:  c.Bootstrap.Config,
		KeyringPath: c.Bootstrap.Keyring,
	}
}
