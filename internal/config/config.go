package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up when no path is given
const FileName = "storesim.yaml"

var defaultConfig = models.Config{
	Store: models.StoreConfig{
		Mode:            "simulator",
		SimulatorConfig: "",
		Manifest:        "",
		Watch:           false,
		LinkFormat:      "https://store.windows.com/en-US/%s",
	},
	Locale: models.LocaleConfig{
		Lang:   "",
		Region: "",
	},
	Log: models.LogConfig{
		Level:  "info",
		Format: "text",
		File:   "",
	},
}

// Default returns a copy of the built-in configuration
func Default() models.Config {
	return defaultConfig
}

// Loader reads configuration from defaults, file, environment and bound flags
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment binding in place
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("store.mode", defaultConfig.Store.Mode)
	v.SetDefault("store.simulator_config", defaultConfig.Store.SimulatorConfig)
	v.SetDefault("store.manifest", defaultConfig.Store.Manifest)
	v.SetDefault("store.watch", defaultConfig.Store.Watch)
	v.SetDefault("store.link_format", defaultConfig.Store.LinkFormat)
	v.SetDefault("locale.lang", defaultConfig.Locale.Lang)
	v.SetDefault("locale.region", defaultConfig.Locale.Region)
	v.SetDefault("log.level", defaultConfig.Log.Level)
	v.SetDefault("log.format", defaultConfig.Log.Format)
	v.SetDefault("log.file", defaultConfig.Log.File)

	// STORESIM_STORE_SIMULATOR_CONFIG -> store.simulator_config
	v.SetEnvPrefix("STORESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Viper exposes the underlying instance so callers can bind command flags
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// ConfigFileUsed returns the file the last Load read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Load reads configPath, or searches for storesim.yaml when it is empty.
// A missing search result is not an error; an explicit path must exist.
func (l *Loader) Load(configPath string) (*models.Config, error) {
	if configPath != "" {
		l.v.SetConfigFile(configPath)
	} else {
		l.v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		l.v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "storesim"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, "CONFIG_READ_FAILED",
				"failed to read config file").
				WithContext("path", configPath)
		}
	}

	var config models.Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load is a shorthand for NewLoader().Load(configPath)
func Load(configPath string) (*models.Config, error) {
	return NewLoader().Load(configPath)
}

// Validate checks values viper cannot type-check
func Validate(config *models.Config) error {
	switch strings.ToLower(config.Store.Mode) {
	case "", "simulator", "live":
	default:
		return errors.NewInvalidModeError(config.Store.Mode, "unknown mode")
	}

	switch strings.ToLower(config.Log.Format) {
	case "", "text", "json":
	default:
		return errors.NewMalformedFieldError("log.format", config.Log.Format, nil)
	}

	if config.Store.LinkFormat != "" && strings.Count(config.Store.LinkFormat, "%s") != 1 {
		return errors.NewMalformedFieldError("store.link_format", config.Store.LinkFormat,
			fmt.Errorf("must contain exactly one %%s for the app id"))
	}

	return nil
}

// SaveTemplate saves a configuration template
func SaveTemplate(path string) error {
	templateContent := `# storesim configuration file

store:
  # Store backend:
  # - "simulator": serve listing and license data from local files (default)
  # - "live": use the store client supplied by the host application
  mode: "simulator"

  # Simulator settings document (ListingInformation / LicenseInformation / Simulation)
  simulator_config: "WindowsStoreProxy.xml"

  # Host app manifest used for the default listing when no settings document
  # is loaded. WMAppManifest.xml or an .apk file.
  manifest: ""

  # Reload the settings document whenever it changes on disk
  watch: false

  # Store link built from the app id for the default listing
  link_format: "https://store.windows.com/en-US/%s"

locale:
  # Culture for price formatting and messages, e.g. "en-US", "de-DE".
  # Leave empty to detect from the environment.
  lang: ""

  # Market used when a document names none, e.g. "US". Defaults to the
  # culture's region.
  region: ""

log:
  # debug, info, warn, error
  level: "info"

  # text or json
  format: "text"

  # Also write logs to this file
  file: ""
`

	return os.WriteFile(path, []byte(templateContent), 0644)
}
