package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/deepfence/IntelSync/constants"
	"github.com/deepfence/IntelSync/pkg/threatintel"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type Config struct {
	HashesPath     string                   `yaml:"hashes_path"`
	RulesPath      string                   `yaml:"rules_path"`
	RuleExtensions []string                 `yaml:"rule_extensions"`
	Feeds          []threatintel.FeedSource `yaml:"feeds"`
}

// ParseConfig looks for config.yaml in configPath, or next to the executable
// and then in the working directory. No file at all means the built-in feeds.
func ParseConfig(configPath string) (*Config, error) {
	config := &Config{}
	var (
		data []byte
		err  error
	)

	if len(configPath) > 0 {
		data, err = os.ReadFile(path.Join(configPath, configFileName))
		if err != nil {
			return config, err
		}
	} else {
		ex, err := os.Executable()
		if err != nil {
			return config, err
		}
		dir := filepath.Dir(ex)
		data, err = os.ReadFile(path.Join(dir, configFileName))
		if err != nil {
			dir, _ = os.Getwd()
			data, err = os.ReadFile(path.Join(dir, configFileName))
			if errors.Is(err, fs.ErrNotExist) {
				config.applyDefaults()
				return config, nil
			}
			if err != nil {
				return config, err
			}
		}
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return config, err
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if len(c.Feeds) == 0 {
		c.Feeds = threatintel.DefaultSources()
	}
	if len(c.RuleExtensions) == 0 {
		c.RuleExtensions = constants.RuleExtensions
	}
}

// Registry validates the configured feeds.
func (c *Config) Registry() (*threatintel.Registry, error) {
	return threatintel.NewRegistry(c.Feeds)
}
