package config

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
)

// EnvPrefix prefixes environment overrides, e.g. SETTLED_LEDGER_EXISTENTIAL_DEPOSIT
const EnvPrefix = "SETTLED"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file, when path is not empty
// 3. Environment variables (SETTLED_ prefix)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load configuration file
	if path != "" {
		if err := loadMainConfig(v, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into struct
	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = path

	// 5. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadMainConfig loads the configuration file
func loadMainConfig(v *viper.Viper, configPath string) error {
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		xrpAmountHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

var xrpAmountType = reflect.TypeOf(XRPAmount.XRPAmount(0))

// xrpAmountHook decodes amounts given as drop counts or "<n>xrp" strings
func xrpAmountHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != xrpAmountType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return XRPAmount.ParseXRPAmount(v)
	case int:
		return intAmount(int64(v))
	case int64:
		return intAmount(v)
	case uint64:
		return XRPAmount.XRPAmount(v), nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxUint64 {
			return nil, fmt.Errorf("%w: %v", XRPAmount.ErrInvalidAmount, v)
		}
		return XRPAmount.XRPAmount(v), nil
	default:
		return data, nil
	}
}

func intAmount(v int64) (XRPAmount.XRPAmount, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", XRPAmount.ErrInvalidAmount, v)
	}
	return XRPAmount.XRPAmount(v), nil
}
