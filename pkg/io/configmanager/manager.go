package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/fsutil"
	"github.com/devantler-tech/box/pkg/utils/envvar"
	"github.com/devantler-tech/box/pkg/utils/notify"
	"github.com/devantler-tech/box/pkg/utils/timer"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Timer adds timing to the success notification.
	Timer timer.Timer
	// Silent suppresses every notification.
	Silent bool
}

// ConfigManager loads and caches the box configuration.
type ConfigManager struct {
	Viper  *viper.Viper
	Writer io.Writer

	config     *v1alpha1.Config
	getwd      func() (string, error)
	configFile string
}

// Option customises a ConfigManager.
type Option func(*ConfigManager)

// WithFs reads config files from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(m *ConfigManager) {
		m.Viper.SetFs(fs)
	}
}

// WithWorkingDir fixes the directory the box directory is detected from.
func WithWorkingDir(dir string) Option {
	return func(m *ConfigManager) {
		m.getwd = func() (string, error) { return dir, nil }
	}
}

// NewConfigManager creates a ConfigManager writing notifications to writer.
func NewConfigManager(writer io.Writer, opts ...Option) *ConfigManager {
	manager := &ConfigManager{
		Viper:  InitializeViper(afero.NewOsFs()),
		Writer: writer,
		getwd:  os.Getwd,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// SetConfigFile reads path instead of searching for box.yaml. A missing explicit file is an error.
func (m *ConfigManager) SetConfigFile(path string) {
	m.configFile = path
}

// BindFlag makes flag override key when it is set on the command line.
func (m *ConfigManager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}

	err := m.Viper.BindPFlag(key, flag)
	if err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}

	return nil
}

// Load returns the configuration, reading it on the first call.
func (m *ConfigManager) Load(opts LoadOptions) (*v1alpha1.Config, error) {
	if m.config != nil {
		return m.config, nil
	}

	if !opts.Silent {
		notify.Titlef(m.Writer, "⏳", "Load config...")
	}

	err := m.readConfig(opts.Silent)
	if err != nil {
		return nil, err
	}

	cfg := &v1alpha1.Config{}

	err = m.Viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	err = m.resolvePaths(cfg)
	if err != nil {
		return nil, err
	}

	err = Validate(cfg)
	if err != nil {
		return nil, err
	}

	if !opts.Silent {
		notify.SuccessWithTimerf(m.Writer, opts.Timer, "config loaded")
	}

	m.config = cfg

	return cfg, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	if m.configFile != "" {
		m.Viper.SetConfigFile(m.configFile)
	}

	err := m.Viper.ReadInConfig()
	if err == nil {
		if !silent {
			notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
		}

		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if m.configFile == "" && errors.As(err, &notFound) {
		if !silent {
			notify.Activityf(m.Writer, "using default config")
		}

		return nil
	}

	return fmt.Errorf("failed to read config file: %w", err)
}

// resolvePaths expands ${VAR} and ~ in path values and defaults the box directory.
func (m *ConfigManager) resolvePaths(cfg *v1alpha1.Config) error {
	for _, path := range []*string{&cfg.BoxDir, &cfg.MetricsFile, &cfg.Bootstrap.CephadmPath} {
		if *path == "" {
			continue
		}

		expanded, err := fsutil.ExpandHomePath(envvar.Expand(*path))
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *path, err)
		}

		*path = expanded
	}

	if cfg.BoxDir != "" {
		return nil
	}

	wd, err := m.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	boxDir, err := DetectBoxDir(wd)
	if errors.Is(err, ErrNotInSourceTree) {
		boxDir = wd
	} else if err != nil {
		return err
	}

	cfg.BoxDir = boxDir

	return nil
}
