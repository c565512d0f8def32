package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "doctoolkit.yaml"

type Config struct {
	Project struct {
		Root string `yaml:"root"`
	} `yaml:"project"`
	Inputs struct {
		Metadata []string `yaml:"metadata"` // dump files, globs or directories
		Docs     []string `yaml:"docs"`     // documentation files, globs or directories
	} `yaml:"inputs"`
	Docs struct {
		FailOnMissingInclude bool `yaml:"fail_on_missing_include"`
	} `yaml:"docs"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Storage.DBPath = "doctoolkit.db"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if root := os.Getenv("DOCTK_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if db := os.Getenv("DOCTK_DB"); db != "" {
		cfg.Storage.DBPath = db
	}
	if level := os.Getenv("DOCTK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if v := os.Getenv("DOCTK_FAIL_ON_MISSING_INCLUDE"); v != "" {
		fail, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DOCTK_FAIL_ON_MISSING_INCLUDE %q: %w", v, err)
		}
		cfg.Docs.FailOnMissingInclude = fail
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	return cfg, nil
}

// InputRoots returns the metadata and documentation inputs resolved against
// the project root. With no inputs configured the root itself is scanned.
func (c *Config) InputRoots() (metadata, docs []string) {
	resolve := func(paths []string) []string {
		if len(paths) == 0 {
			return []string{c.Project.Root}
		}
		out := make([]string, 0, len(paths))
		for _, p := range paths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(c.Project.Root, p)
			}
			out = append(out, p)
		}
		return out
	}
	return resolve(c.Inputs.Metadata), resolve(c.Inputs.Docs)
}
