// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config loads the contract store configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration of a contract store instance.
type Config struct {
	// MagicNumber identifies the chain this store belongs to. It is stored
	// as metadata only.
	MagicNumber uint32 `toml:"magic_number"`
	// StoreDir is the directory of the key-value store.
	StoreDir string `toml:"store_dir"`
	// CommitLogPath is the file path of the commit-log database.
	CommitLogPath string `toml:"commit_log_path"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		MagicNumber:   1,
		StoreDir:      "contractstore.db",
		CommitLogPath: "contractstore.sql.db",
	}
}

// Load reads a configuration from the TOML file at the given path. Fields
// absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
