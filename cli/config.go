package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

type config struct {
	APIAddress    string `json:"apiAddress"`
	AllowInsecure bool   `json:"allowInsecure,omitempty"`
}

func getConfig() (*config, error) {
	didaHome, err := getDidaHome()
	if err != nil {
		return nil, errors.Wrap(err, "error finding didactl home")
	}
	didaConfigFile := path.Join(didaHome, "config")
	if _, err := os.Stat(didaConfigFile); err != nil {
		return nil, errors.Errorf(
			"no didactl configuration was found at %s; please use "+
				"`didactl login` to continue",
			didaConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(didaConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading didactl config file at %s",
			didaConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing didactl config file at %s",
			didaConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	didaHome, err := getDidaHome()
	if err != nil {
		return errors.Wrap(err, "error finding didactl home")
	}
	if _, err := os.Stat(didaHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of didactl home at %s",
				didaHome,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(didaHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating didactl home at %s",
				didaHome,
			)
		}
	}
	didaConfigFile := path.Join(didaHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(didaConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", didaConfigFile)
	}
	return nil
}

func deleteConfig() error {
	didaHome, err := getDidaHome()
	if err != nil {
		return errors.Wrap(err, "error finding didactl home")
	}
	didaConfigFile := path.Join(didaHome, "config")

	if err := os.Remove(didaConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getDidaHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".didaapi"), nil
}
