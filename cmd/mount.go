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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/jacobsa/daemonize"
	"github.com/jacobsa/fuse"
	"github.com/nicolagi-labs/kvfs/cfg"
	"github.com/nicolagi-labs/kvfs/clock"
	"github.com/nicolagi-labs/kvfs/fs"
	"github.com/nicolagi-labs/kvfs/internal/kvfs"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/nicolagi-labs/kvfs/internal/logger"
)

// runMount opens the store, brings up the fuseutil.FileSystem bridge, and
// mounts it at mountPoint. Unless mountCfg.FileSystem.Foreground is set,
// it backgrounds the real mount: re-exec itself with --foreground forced,
// wait for the child to report its outcome, and return without blocking
// the caller's shell.
func runMount(mountPoint string, mountCfg *cfg.Config) error {
	logger.SetLevel(mountCfg.Logging.Severity)
	logger.SetOutput(os.Stderr, mountCfg.Logging.Format)

	if mountCfg.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if !mountCfg.FileSystem.Foreground {
		return daemonizeMount()
	}

	uid, gid, err := resolveOwner(mountCfg.FileSystem.Uid, mountCfg.FileSystem.Gid)
	if err != nil {
		return err
	}

	store, err := kvstore.OpenBoltStore(mountCfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	server, err := fs.NewServer(&fs.Config{
		Store:    store,
		Clock:    clock.RealClock{},
		Uid:      uid,
		Gid:      gid,
		FileMode: kvfs.ModeRegular | uint32(mountCfg.FileSystem.FileMode)&0777,
		DirMode:  kvfs.ModeDir | uint32(mountCfg.FileSystem.DirMode)&0777,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("fs.NewServer: %w", err)
	}

	logger.Infof("mounting %s at %s", mountCfg.Store.Path, mountPoint)

	fuseCfg := &fuse.MountConfig{
		FSName:     "kvfs",
		Subtype:    "kvfs",
		VolumeName: "kvfs",
		ErrorLogger: logger.NewLegacyLogger(
			logger.SeverityError, "fuse: "),
	}
	if mountCfg.Logging.Severity == logger.SeverityTrace {
		fuseCfg.DebugLogger = logger.NewLegacyLogger(logger.SeverityTrace, "fuse_debug: ")
	}

	mfs, err := fuse.Mount(mountPoint, server, fuseCfg)
	if err != nil {
		_ = daemonize.SignalOutcome(err)
		return fmt.Errorf("mount: %w", err)
	}
	_ = daemonize.SignalOutcome(nil)

	if err := mfs.Join(context.Background()); err != nil {
		return fmt.Errorf("waiting for unmount: %w", err)
	}
	return nil
}

// daemonizeMount re-execs the current binary with --foreground forced and
// the rest of os.Args unchanged, then waits for the child to report
// whether it mounted successfully. Only PATH is passed through to the
// child's environment.
func daemonizeMount() error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding own executable: %w", err)
	}

	args := append([]string{"--foreground"}, os.Args[1:]...)
	env := []string{fmt.Sprintf("PATH=%s", os.Getenv("PATH"))}

	if err := daemonize.Run(path, args, env, os.Stdout, os.Stderr); err != nil {
		return fmt.Errorf("daemonize.Run: %w", err)
	}
	logger.Infof("mounted successfully in the background")
	return nil
}

// resolveOwner turns the configured uid/gid (-1 meaning "use mine") into
// concrete owners for the root inode.
func resolveOwner(uid, gid int) (uint32, uint32, error) {
	if uid >= 0 && gid >= 0 {
		return uint32(uid), uint32(gid), nil
	}

	current, err := user.Current()
	if err != nil {
		return 0, 0, fmt.Errorf("looking up current user: %w", err)
	}

	resolvedUID := uid
	if resolvedUID < 0 {
		n, err := strconv.Atoi(current.Uid)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing current uid: %w", err)
		}
		resolvedUID = n
	}

	resolvedGID := gid
	if resolvedGID < 0 {
		n, err := strconv.Atoi(current.Gid)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing current gid: %w", err)
		}
		resolvedGID = n
	}

	return uint32(resolvedUID), uint32(resolvedGID), nil
}
