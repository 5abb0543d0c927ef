package schema

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/quwac/yamlfix/errors"
)

// ConfigFileNames are the files FindConfig looks for, in order.
var ConfigFileNames = []string{".yamlfix.yaml", ".yamlfix.yml", "pyproject.toml"}

// LoadConfig loads a configuration from path. Files with the .toml
// extension are read from their [tool.yamlfix] table, other files are
// decoded as YAML. Unknown options are errors.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(path) == ".toml" {
		cfg, _, err := decodeTOML(f)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", path)
		}
		return cfg, nil
	}

	var cfg Config
	d := yaml.NewDecoder(f, yaml.Strict())
	if err := d.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to decode YAML of %s", path)
	}
	return &cfg, nil
}

type pyproject struct {
	Tool struct {
		Yamlfix Config `toml:"yamlfix"`
	} `toml:"tool"`
}

// decodeTOML returns the [tool.yamlfix] table of r and whether it is defined.
func decodeTOML(r io.Reader) (*Config, bool, error) {
	var p pyproject
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to decode TOML")
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		if len(k) > 2 && k[0] == "tool" && k[1] == "yamlfix" {
			unknown = append(unknown, k.String())
		}
	}
	if len(unknown) > 0 {
		return nil, false, errors.Errorf("unknown options: %s", strings.Join(unknown, ", "))
	}
	return &p.Tool.Yamlfix, md.IsDefined("tool", "yamlfix"), nil
}

// FindConfig searches dir and its parents for a configuration file and
// returns its path. A pyproject.toml only counts when it has a
// [tool.yamlfix] table. It returns an empty string if nothing is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			ok, err := isConfigFile(path)
			if err != nil {
				return "", err
			}
			if ok {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isConfigFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if filepath.Ext(path) != ".toml" {
		return true, nil
	}
	_, defined, err := decodeTOML(f)
	if err != nil {
		return false, errors.Wrapf(err, "failed to load %s", path)
	}
	return defined, nil
}
