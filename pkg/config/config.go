package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddress  string `mapstructure:"listen_address"`
	SpreadsheetID  string `mapstructure:"spreadsheet_id"`
	SecretsFile    string `mapstructure:"secrets_file"`
	KeyringService string `mapstructure:"keyring_service"`
	DriveScope     bool   `mapstructure:"drive_scope"`
	Verbose        bool   `mapstructure:"verbose"`
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_address", ":8080")
	v.SetDefault("spreadsheet_id", "")
	v.SetDefault("secrets_file", "secrets.toml")
	v.SetDefault("keyring_service", "")
	v.SetDefault("drive_scope", false)
	v.SetDefault("verbose", false)
}

// New returns a viper instance reading SHEETFORM_* variables and a TOML
// config file: path when given, otherwise an optional ./sheetform.toml.
func New(path string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SHEETFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The default spreadsheet keeps its historical variable name.
	_ = v.BindEnv("spreadsheet_id", "SHEETFORM_SPREADSHEET_ID", "GOOGLE_SHEET_ID")
	SetDefaults(v)
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sheetform")
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the config file and unmarshals v. Only the implicit
// ./sheetform.toml may be absent; an explicit path must exist.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}
