package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const envconfigPrefix = "DRONE"

// config is assembled from, in increasing order of precedence, the config
// file, the environment and command line flags.
type config struct {
	APIAddress    string `json:"apiAddress" envconfig:"SERVER"`
	APIToken      string `json:"apiToken" envconfig:"TOKEN"`
	AllowInsecure bool   `json:"allowInsecure" envconfig:"INSECURE"`
}

func getConfig(c *cli.Context) (config, error) {
	cfg, err := getConfigFromFile()
	if err != nil {
		return cfg, err
	}
	// Fields without a corresponding environment variable are left untouched
	if err = envconfig.Process(envconfigPrefix, &cfg); err != nil {
		return cfg, errors.Wrap(err, "error reading configuration from environment")
	}
	if c.IsSet(flagServer) {
		cfg.APIAddress = c.String(flagServer)
	}
	if c.IsSet(flagToken) {
		cfg.APIToken = c.String(flagToken)
	}
	if c.IsSet(flagInsecure) {
		cfg.AllowInsecure = c.Bool(flagInsecure)
	}
	if cfg.APIAddress == "" {
		return cfg, errors.New(
			"no Drone server address configured; set DRONE_SERVER or use --server",
		)
	}
	if cfg.APIToken == "" {
		return cfg, errors.New(
			"no Drone API token configured; set DRONE_TOKEN or use --token",
		)
	}
	return cfg, nil
}

// getConfigFromFile returns the contents of the optional config file. A
// missing file yields an empty config.
func getConfigFromFile() (config, error) {
	cfg := config{}
	home, err := getHome()
	if err != nil {
		return cfg, errors.Wrap(err, "error finding drone-logs home")
	}
	configFile := path.Join(home, "config")
	if _, err = os.Stat(configFile); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(
			err,
			"error checking for existence of config file at %s",
			configFile,
		)
	}
	configBytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return cfg, errors.Wrapf(
			err,
			"error reading config file at %s",
			configFile,
		)
	}
	if err := json.Unmarshal(configBytes, &cfg); err != nil {
		return cfg, errors.Wrapf(
			err,
			"error parsing config file at %s",
			configFile,
		)
	}
	return cfg, nil
}

func getHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return path.Join(homeDir, ".drone-logs"), nil
}
