package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cardtable-server/internal/util"
)

// Config provides configuration for the card table server
type Config struct {
	loaded     bool
	Addr       string `yaml:"addr" envconfig:"addr"`
	StatusAddr string `yaml:"statusAddr" envconfig:"status_addr"`
	Game       struct {
		StartingBalance int `yaml:"startingBalance" envconfig:"starting_balance"`
		LowWaterMark    int `yaml:"lowWaterMark" envconfig:"low_water_mark"`
		MinPlayers      int `yaml:"minPlayers" envconfig:"min_players"`
		PollIntervalMS  int `yaml:"pollIntervalMs" envconfig:"poll_interval_ms"`
	}
	Server struct {
		MailboxSize int `yaml:"mailboxSize" envconfig:"mailbox_size"`
		NameLimit   int `yaml:"nameLimit" envconfig:"name_limit"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// PollInterval returns the session driver's poll interval
func (c Config) PollInterval() time.Duration {
	return time.Millisecond * time.Duration(c.Game.PollIntervalMS)
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The YAML file is optional; defaults and environment variables always apply.
func Load() error {
	config = defaults()

	configFile := util.Getenv("CTS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("cts", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

func defaults() Config {
	var c Config
	c.Addr = ":8080"
	c.StatusAddr = ":5000"
	c.Game.StartingBalance = 100
	c.Game.LowWaterMark = 10
	c.Game.MinPlayers = 1
	c.Game.PollIntervalMS = 50
	c.Server.MailboxSize = 256
	c.Server.NameLimit = 40

	return c
}
