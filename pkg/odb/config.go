// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigVersion is the only repository format version this package
// understands (spec §6 "Version 1 must be refused; versions above 2 must
// be refused.").
const ConfigVersion = 2

var ErrUnsupportedRepositoryVersion = errors.New("snow: unsupported repository version")

// Config is the commondir/config JSON document (spec §3/§6).
type Config struct {
	Version          int            `json:"version"`
	Filemode         bool           `json:"filemode"`
	Symlinks         bool           `json:"symlinks"`
	AdditionalConfig map[string]any `json:"additionalConfig,omitempty"`
}

// DefaultConfig is what Init writes for a freshly created repository.
func DefaultConfig() Config {
	return Config{Version: ConfigVersion, Filemode: false, Symlinks: true}
}

// LoadConfig reads and validates commondir/config.
func (d *Database) LoadConfig() (Config, error) {
	data, err := os.ReadFile(filepath.Join(d.commondir, fileConfig))
	if err != nil {
		return Config{}, fmt.Errorf("odb: read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("odb: decode config: %w", err)
	}
	if cfg.Version != ConfigVersion {
		return Config{}, fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedRepositoryVersion, cfg.Version, ConfigVersion)
	}
	return cfg, nil
}

// SaveConfig validates and persists cfg.
func (d *Database) SaveConfig(cfg Config) error {
	if cfg.Version != ConfigVersion {
		return fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedRepositoryVersion, cfg.Version, ConfigVersion)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("odb: encode config: %w", err)
	}
	return writeSafeFile(filepath.Join(d.commondir, fileConfig), data)
}
