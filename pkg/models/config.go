package models

// Config represents the application configuration
type Config struct {
	Store  StoreConfig  `mapstructure:"store" json:"store" yaml:"store"`
	Locale LocaleConfig `mapstructure:"locale" json:"locale" yaml:"locale"`
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log"`
}

// StoreConfig selects the store backend and the simulator inputs
type StoreConfig struct {
	Mode            string `mapstructure:"mode" json:"mode" yaml:"mode"`                                     // "simulator", "live"
	SimulatorConfig string `mapstructure:"simulator_config" json:"simulator_config" yaml:"simulator_config"` // XML listing document
	Manifest        string `mapstructure:"manifest" json:"manifest" yaml:"manifest"`                         // WMAppManifest.xml or .apk
	Watch           bool   `mapstructure:"watch" json:"watch" yaml:"watch"`
	LinkFormat      string `mapstructure:"link_format" json:"link_format" yaml:"link_format"`
}

// LocaleConfig overrides the host culture used for market and price formatting
type LocaleConfig struct {
	Lang   string `mapstructure:"lang" json:"lang" yaml:"lang"`
	Region string `mapstructure:"region" json:"region" yaml:"region"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "text", "json"
	File   string `mapstructure:"file" json:"file" yaml:"file"`
}
