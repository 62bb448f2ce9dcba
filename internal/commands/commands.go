// Package commands implements the external command surface the GUI shell
// calls (§4.15, boundary only): a fixed set of retry-wrapped upstream list
// endpoints, a fixed set of direct local endpoints, authentication flows,
// and a single-runner mutex around launching/terminating the child
// process. Every command returns either typed data or an error; there is
// no other adapter between the pipeline and the shell.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasar/mclauncher/internal/auth"
	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/launcher"
	"github.com/quasar/mclauncher/internal/options"
	"github.com/quasar/mclauncher/internal/platform"
	"github.com/quasar/mclauncher/internal/prelauncher"
	"github.com/quasar/mclauncher/internal/process"
	"github.com/quasar/mclauncher/internal/progress"
)

const launcherVersion = "1.0.0"

// Service wires every subsystem the command surface dispatches into, and
// owns the single-runner mutex for run_client/terminate.
type Service struct {
	HTTP        *httpx.Client
	Cache       cache.Root
	Platform    platform.Info
	Options     options.Store
	API         *BuildsAPI
	Prelauncher *prelauncher.Pipeline
	Launcher    *launcher.Launcher
	MSA         *auth.MSAClient
	Offline     *auth.OfflineClient
	Client      *auth.ClientAuthenticator

	runner runner
}

// GetOptions implements the `get_options` direct command.
func (s *Service) GetOptions() (options.Options, error) {
	return s.Options.Load()
}

// StoreOptions implements the `store_options` direct command.
func (s *Service) StoreOptions(o options.Options) error {
	return s.Options.Store(o)
}

// ClearData implements the `clear_data(options)` direct command: wipes the
// cache directories named in §4.4/§6 under the configured root.
func (s *Service) ClearData(o options.Options) error {
	root := s.Cache
	if o.Start.CustomDataPath != "" {
		root = cache.NewRoot(o.Start.CustomDataPath)
	}
	return root.ClearData()
}

// DefaultDataFolderPath implements the `default_data_folder_path` direct
// command.
func (s *Service) DefaultDataFolderPath() string {
	return s.Cache.Path
}

// GetLauncherVersion implements the `get_launcher_version` direct command.
func (s *Service) GetLauncherVersion() string {
	return launcherVersion
}

// SysMemory implements the `sys_memory` direct command: total installed
// RAM in MiB, used by the GUI to bound the memory slider.
func (s *Service) SysMemory() (int, error) {
	return sysMemoryMiB(s.Platform)
}

// InstallCustomMod implements `install_custom_mod`: copies a user-provided
// jar into the branch's custom-mods directory.
func (s *Service) InstallCustomMod(branch, mcVersion, srcPath string) error {
	dir := s.Cache.CustomModsDir(branch, mcVersion)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create custom mods directory: %w", err)
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read custom mod %q: %w", srcPath, err)
	}
	dst := filepath.Join(dir, filepath.Base(srcPath))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write custom mod %q: %w", dst, err)
	}
	return nil
}

// DeleteCustomMod implements `delete_custom_mod`.
func (s *Service) DeleteCustomMod(branch, mcVersion, fileName string) error {
	dir := s.Cache.CustomModsDir(branch, mcVersion)
	path := filepath.Join(dir, fileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete custom mod %q: %w", path, err)
	}
	return nil
}

// GetCustomMods implements `get_custom_mods`: lists the jar file names
// present in the branch's custom-mods directory.
func (s *Service) GetCustomMods(branch, mcVersion string) ([]string, error) {
	dir := s.Cache.CustomModsDir(branch, mcVersion)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list custom mods: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// LaunchManifestFor implements `launch_manifest(build_id)`: fetches the
// Build/LaunchManifest for the given upstream build id.
func (s *Service) LaunchManifestFor(buildID int) (prelauncher.LaunchManifest, error) {
	return s.API.LaunchManifest(buildID)
}

// RunClient implements `run_client`: refuses to start a second child while
// one is already running, otherwise drives the prelauncher then launcher
// then process supervisor end to end.
func (s *Service) RunClient(ctx context.Context, lm prelauncher.LaunchManifest, popts prelauncher.Options, sp launcher.StartParameter, requiredJavaMajor int, onStdout, onStderr process.OutputFunc) error {
	terminate, release, err := s.runner.start()
	if err != nil {
		return err
	}
	defer release()

	result, err := s.Prelauncher.Run(lm, popts)
	if err != nil {
		return fmt.Errorf("prelauncher: %w", err)
	}

	prepared, err := s.Launcher.Prepare(ctx, result.Profile, lm.Build.Branch, requiredJavaMajor, sp)
	if err != nil {
		return fmt.Errorf("prepare launch: %w", err)
	}

	sup := &process.Supervisor{JavaBinary: prepared.JavaBinary, Args: prepared.Args, WorkDir: prepared.WorkDir}
	return sup.Run(ctx, onStdout, onStderr, terminate)
}

// Terminate implements `terminate`: signals the running child, if any, to
// exit. It is a no-op when nothing is running.
func (s *Service) Terminate() error {
	return s.runner.terminate()
}

// Progress exposes the shared progress aggregator so the shell can
// subscribe to `progress-update` events.
func (s *Service) Progress() *progress.Aggregator {
	return s.Launcher.Progress
}
