package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Profile holds the defaults an operator keeps between runs. Flags override
// every field.
type Profile struct {
	DataDir string `yaml:"data_dir"`
	APIURL  string `yaml:"api_url"`
	APIKey  string `yaml:"api_key"`
	AuditDB string `yaml:"audit_db"`
}

func loadProfile(path string) (Profile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Profile{}, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, errors.Wrapf(err, "read profile %s", path)
	}

	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, errors.Wrapf(err, "parse profile %s", path)
	}
	return p, nil
}

// merge fills empty fields of p from fallback.
func (p Profile) merge(fallback Profile) Profile {
	if p.DataDir == "" {
		p.DataDir = fallback.DataDir
	}
	if p.APIURL == "" {
		p.APIURL = fallback.APIURL
	}
	if p.APIKey == "" {
		p.APIKey = fallback.APIKey
	}
	if p.AuditDB == "" {
		p.AuditDB = fallback.AuditDB
	}
	return p
}
