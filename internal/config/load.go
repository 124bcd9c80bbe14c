package config

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoncast/pkg/configdef"
	"github.com/tauraamui/dragoncast/pkg/log"
	"gopkg.in/yaml.v3"
)

// load reads the config file over the defaults, so any option the
// file leaves out keeps its default value.
func load() (configdef.Values, error) {
	values := configdef.Default()

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(configPath, file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(path string, content []byte, values *configdef.Values) error {
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(values); err != nil {
			return errors.Errorf("parsing configuration error: %v", err)
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(values); err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func marshal(path string, values configdef.Values) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(values)
	}
	return json.MarshalIndent(values, "", " ")
}
