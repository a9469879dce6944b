// Copyright 2025 The kvfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfg defines the mount-time configuration shape, bindable from
// flags, a YAML config file, or both (flags win).
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of mount-time settings, bindable from flags, a
// YAML config file, or both (flags win).
type Config struct {
	FileSystem FileSystemConfig `yaml:"file-system" mapstructure:"file-system"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	Store StoreConfig `yaml:"store" mapstructure:"store"`
}

type FileSystemConfig struct {
	// Uid and Gid own every inode. A negative value means "use the
	// invoking process's own uid/gid", resolved at mount time.
	Uid int `yaml:"uid" mapstructure:"uid"`
	Gid int `yaml:"gid" mapstructure:"gid"`

	FileMode Octal `yaml:"file-mode" mapstructure:"file-mode"`
	DirMode  Octal `yaml:"dir-mode" mapstructure:"dir-mode"`

	Foreground bool `yaml:"foreground" mapstructure:"foreground"`
}

type LoggingConfig struct {
	Severity string `yaml:"severity" mapstructure:"severity"`
	Format   string `yaml:"format" mapstructure:"format"`
}

type StoreConfig struct {
	// Path to the bbolt database file backing the mount. Required.
	Path string `yaml:"path" mapstructure:"path"`
}

// BindFlags registers every Config field as a pflag, bound through viper
// so that a YAML config file and command-line flags populate the same
// struct.
func BindFlags(flagSet *pflag.FlagSet) error {
	bindings := []struct {
		key string
		set func() error
	}{
		{"file-system.uid", func() error {
			flagSet.IntP("uid", "", -1, "UID owner of all inodes (-1: use the current process's).")
			return viper.BindPFlag("file-system.uid", flagSet.Lookup("uid"))
		}},
		{"file-system.gid", func() error {
			flagSet.IntP("gid", "", -1, "GID owner of all inodes (-1: use the current process's).")
			return viper.BindPFlag("file-system.gid", flagSet.Lookup("gid"))
		}},
		{"file-system.file-mode", func() error {
			flagSet.StringP("file-mode", "", "644", "Permission bits for regular files, in octal.")
			return viper.BindPFlag("file-system.file-mode", flagSet.Lookup("file-mode"))
		}},
		{"file-system.dir-mode", func() error {
			flagSet.StringP("dir-mode", "", "755", "Permission bits for directories, in octal.")
			return viper.BindPFlag("file-system.dir-mode", flagSet.Lookup("dir-mode"))
		}},
		{"file-system.foreground", func() error {
			flagSet.BoolP("foreground", "f", false, "Stay in the foreground instead of daemonizing.")
			return viper.BindPFlag("file-system.foreground", flagSet.Lookup("foreground"))
		}},
		{"logging.severity", func() error {
			flagSet.StringP("log-severity", "", "info", "One of trace, debug, info, warn, error, off.")
			return viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity"))
		}},
		{"logging.format", func() error {
			flagSet.StringP("log-format", "", "text", "One of text, json.")
			return viper.BindPFlag("logging.format", flagSet.Lookup("log-format"))
		}},
	}

	for _, b := range bindings {
		if err := b.set(); err != nil {
			return err
		}
	}

	return nil
}
