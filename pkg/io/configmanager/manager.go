// Package configmanager loads CLI settings from defaults, an optional
// config file, environment variables, and command-line flags, in
// ascending priority.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/saadousman/health-checks/pkg/ui/notify"
	"github.com/saadousman/health-checks/pkg/ui/timer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides, so
	// HEALTH_CHECKS_INTERVAL overrides the interval setting.
	EnvPrefix = "HEALTH_CHECKS"
	// ConfigName is the config file base name searched for in the
	// working directory (health-checks.yaml).
	ConfigName = "health-checks"
)

// Output formats for check results.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Settings holds the resolved CLI configuration.
type Settings struct {
	// Kubeconfig is an explicit kubeconfig path. Empty uses the standard
	// loading rules (KUBECONFIG, then ~/.kube/config).
	Kubeconfig string `mapstructure:"kubeconfig"`
	// Context selects a kubeconfig context. Empty uses the current context.
	Context string `mapstructure:"context"`
	// Timeout bounds the whole readiness check.
	Timeout time.Duration `mapstructure:"timeout"`
	// Interval is the delay between poll ticks.
	Interval time.Duration `mapstructure:"interval"`
	// SettleDelay is the pause before the first poll tick.
	SettleDelay time.Duration `mapstructure:"settle"`
	// Output selects the result format: text, json, or yaml.
	Output string `mapstructure:"output"`
	// Verbose enables structured debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// ConfigManager loads Settings and caches the result for reuse within a
// command invocation.
type ConfigManager struct {
	Viper        *viper.Viper
	Config       *Settings
	Writer       io.Writer
	configLoaded bool
}

// NewConfigManager creates a configuration manager. Notifications about
// config loading are written to the given writer.
func NewConfigManager(writer io.Writer) *ConfigManager {
	viperInstance := viper.New()
	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viperInstance.AutomaticEnv()

	// Every key needs a default so environment overrides are visible to
	// Unmarshal even when no config file or flag mentions the key.
	viperInstance.SetDefault("kubeconfig", "")
	viperInstance.SetDefault("context", "")
	viperInstance.SetDefault("timeout", 500*time.Second)
	viperInstance.SetDefault("interval", 5*time.Second)
	viperInstance.SetDefault("settle", 10*time.Second)
	viperInstance.SetDefault("output", OutputText)
	viperInstance.SetDefault("verbose", false)

	return &ConfigManager{
		Viper:  viperInstance,
		Config: &Settings{},
		Writer: writer,
	}
}

// BindFlags registers a flag set as the highest-priority configuration
// source. Flag names must match the Settings mapstructure keys.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet) error {
	err := m.Viper.BindPFlags(flags)
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	return nil
}

// LoadConfig loads the configuration. Returns the loaded config, either
// freshly loaded or previously cached. If a timer is provided, timing
// information is included in the success notification.
func (m *ConfigManager) LoadConfig(tmr timer.Timer) (*Settings, error) {
	return m.loadConfigWithOptions(tmr, false)
}

// LoadConfigSilent loads the configuration without emitting notifications.
func (m *ConfigManager) LoadConfigSilent() (*Settings, error) {
	return m.loadConfigWithOptions(nil, true)
}

func (m *ConfigManager) loadConfigWithOptions(
	tmr timer.Timer,
	silent bool,
) (*Settings, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	err := m.readConfig(silent)
	if err != nil {
		return nil, err
	}

	err = m.Viper.Unmarshal(m.Config)
	if err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	err = validateSettings(m.Config)
	if err != nil {
		return nil, err
	}

	if !silent {
		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: "config loaded",
			Timer:   tmr,
			Writer:  m.Writer,
		})
	}

	m.configLoaded = true

	return m.Config, nil
}

// readConfig reads the on-disk config file. A missing file is not an
// error; defaults, environment variables, and flags still apply.
func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}

		return nil
	}

	if !silent {
		notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

func validateSettings(settings *Settings) error {
	switch settings.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: %q (expected %q, %q, or %q)",
			ErrInvalidOutputFormat, settings.Output, OutputText, OutputJSON, OutputYAML)
	}

	if settings.Timeout <= 0 {
		return fmt.Errorf("%w: timeout %s", ErrNonPositiveDuration, settings.Timeout)
	}

	if settings.Interval <= 0 {
		return fmt.Errorf("%w: interval %s", ErrNonPositiveDuration, settings.Interval)
	}

	if settings.SettleDelay < 0 {
		return fmt.Errorf("%w: settle %s", ErrNonPositiveDuration, settings.SettleDelay)
	}

	return nil
}
