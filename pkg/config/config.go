// Package config loads csversion defaults from a .csversion.yaml file and the
// environment. Command-line flags take precedence over both.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = `.csversion.yaml`

// Environment variables overriding file values.
const (
	EnvVcs              = "CSVERSION_VCS"
	EnvOutputFormat     = "CSVERSION_OUTPUT_FORMAT"
	EnvPreReleasePrefix = "CSVERSION_PRERELEASE_PREFIX"
	EnvSkipVcs          = "CSVERSION_SKIP_VCS"
)

// homeDir is swapped out in tests.
var homeDir = homedir.Dir

// Config stores csversion config items.
type Config struct {
	// Path of the file the values were read from, empty when none was found.
	Path string `yaml:"-"`

	Vcs                 string   `yaml:"vcs"`
	ProjectFileProperty string   `yaml:"projectFileProperty"`
	PreReleasePrefix    string   `yaml:"preReleasePrefix"`
	CommitMessage       string   `yaml:"commitMessage"`
	VersionControlTag   string   `yaml:"tag"`
	OutputFormat        string   `yaml:"outputFormat"`
	SkipVcs             bool     `yaml:"skipVcs"`
	BumpFiles           []string `yaml:"bumpFiles"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Vcs:                 "git",
		ProjectFileProperty: "Version",
		PreReleasePrefix:    "next",
		CommitMessage:       "v$newVer",
		VersionControlTag:   "v$newVer",
		OutputFormat:        "text",
	}
}

// Load reads FileName from dir, falling back to the home directory, and
// applies environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	c := Default()

	candidates := []string{filepath.Join(dir, FileName)}
	if home, err := homeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}

	for _, path := range candidates {
		err := c.load(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) load(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(bs, c); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}
	c.Path = path

	dir := filepath.Dir(path)
	for i, f := range c.BumpFiles {
		expanded, err := homedir.Expand(f)
		if err != nil {
			return errors.Wrapf(err, "config file %s: bump file %q", path, f)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(dir, expanded)
		}
		c.BumpFiles[i] = expanded
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvVcs); ok && v != "" {
		c.Vcs = v
	}
	if v, ok := os.LookupEnv(EnvOutputFormat); ok && v != "" {
		c.OutputFormat = v
	}
	if v, ok := os.LookupEnv(EnvPreReleasePrefix); ok && v != "" {
		c.PreReleasePrefix = v
	}
	if v, ok := os.LookupEnv(EnvSkipVcs); ok && v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvSkipVcs)
		}
		c.SkipVcs = skip
	}
	return nil
}
