package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Training TrainingConfig `mapstructure:"training"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// ModelConfig locates the persisted training artifacts.
type ModelConfig struct {
	Dir string `mapstructure:"dir"`
}

type TrainingConfig struct {
	DatasetPath string  `mapstructure:"dataset_path"`
	NumTrees    int     `mapstructure:"num_trees"`
	MaxDepth    int     `mapstructure:"max_depth"`
	RandomState int64   `mapstructure:"random_state"`
	TestSize    float64 `mapstructure:"test_size"`
}

// LoadConfig reads configuration from the given file if it exists, applying
// defaults otherwise. Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("model.dir", "model")
	v.SetDefault("training.dataset_path", "Family-Income-and-Expenditure.csv")
	v.SetDefault("training.num_trees", 40)
	v.SetDefault("training.max_depth", 10)
	v.SetDefault("training.random_state", 42)
	v.SetDefault("training.test_size", 0.3)

	v.AutomaticEnv()

	// The config file is optional; defaults cover the common case.
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
