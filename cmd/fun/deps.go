package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"fun/interpreter-go/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "fun deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "fun deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// depsSession holds what both deps subcommands load before resolving.
type depsSession struct {
	manifest    *driver.Manifest
	home        string
	lock        *driver.Lockfile
	lockPath    string
	lockCreated bool
}

func openDepsSession() (*depsSession, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, false
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate package.yml: %v\n", err)
		return nil, false
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, false
	}
	home, err := driver.DefaultHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", driver.HomeEnv, err)
		return nil, false
	}

	session := &depsSession{
		manifest: manifest,
		home:     home,
		lockPath: filepath.Join(manifest.Dir(), driver.LockFileName),
	}
	lock, err := driver.LoadLockfile(session.lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return nil, false
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		session.lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return nil, false
	}
	lock.Path = session.lockPath
	lock.Tool = cliToolVersion
	session.lock = lock
	return session, true
}

func runDepsInstall() int {
	session, ok := openDepsSession()
	if !ok {
		return 1
	}
	manifest := session.manifest

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", session.home)

	installer := newDependencyInstaller(manifest, session.home)
	changed, logs, err := installer.Install(session.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || session.lockCreated {
		action := "Updated"
		if session.lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(session.lock, session.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s package.lock: %s\n", action, session.lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "package.lock already up to date: %s\n", session.lock.Path)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

// runDepsUpdate re-resolves the named dependencies, or every dependency
// when none are named.
func runDepsUpdate(targets []string) int {
	session, ok := openDepsSession()
	if !ok {
		return 1
	}

	updateSet := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		name := driver.PackageName(target)
		if _, declared := session.manifest.Dependencies[name]; !declared {
			fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
			return 1
		}
		updateSet[name] = struct{}{}
	}

	if len(updateSet) == 0 {
		session.lock.Packages = nil
	} else {
		session.lock.Packages = lo.Reject(session.lock.Packages, func(pkg *driver.LockedPackage, _ int) bool {
			if pkg == nil {
				return true
			}
			_, drop := updateSet[pkg.Name]
			return drop
		})
	}

	installer := newDependencyInstaller(session.manifest, session.home)
	changed, logs, err := installer.Install(session.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || session.lockCreated {
		if err := driver.WriteLockfile(session.lock, session.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Updated package.lock: %s\n", session.lock.Path)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return 0
}
