package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"fun/interpreter-go/pkg/driver"
)

type resolvedPackage struct {
	pkg      *driver.LockedPackage
	manifest *driver.Manifest
	root     string
}

// dependencyInstaller resolves a manifest's dependency graph depth-first
// into lockfile entries, cloning git dependencies into the cache.
type dependencyInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	logs         []string
	git          *gitFetcher
	locked       map[string]*driver.LockedPackage
	resolved     map[string]*driver.LockedPackage
	resolving    map[string]bool
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	var root string
	if manifest != nil {
		root = manifest.Dir()
	}
	return &dependencyInstaller{
		manifest:     manifest,
		manifestRoot: root,
		cacheDir:     cacheDir,
		logs:         []string{},
		git:          newGitFetcher(cacheDir),
	}
}

// Install resolves every dependency and replaces lock.Packages with the
// result. It reports whether the lock contents changed.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if d.manifest == nil {
		return false, d.logs, nil
	}

	d.locked = lo.SliceToMap(lo.Compact(lock.Packages), func(pkg *driver.LockedPackage) (string, *driver.LockedPackage) {
		return pkg.Name, pkg
	})
	d.resolved = make(map[string]*driver.LockedPackage)
	d.resolving = make(map[string]bool)

	for _, name := range d.manifest.DependencyNames() {
		spec := d.manifest.Dependencies[name]
		if spec == nil {
			return false, d.logs, fmt.Errorf("dependency %q has no descriptor", name)
		}
		if err := d.installDependency(name, d.rootedSpec(spec, d.manifestRoot)); err != nil {
			return false, d.logs, err
		}
	}

	desired := lo.Values(d.resolved)
	sort.SliceStable(desired, func(i, j int) bool {
		return desired[i].Name < desired[j].Name
	})

	changed := len(desired) != len(d.locked)
	for _, pkg := range desired {
		if current, ok := d.locked[pkg.Name]; !ok || !lockedPackageEqual(current, pkg) {
			changed = true
		}
	}

	lock.Packages = desired
	return changed, d.logs, nil
}

func (d *dependencyInstaller) installDependency(name string, spec *driver.DependencySpec) error {
	alias := driver.PackageName(name)
	if _, exists := d.resolved[alias]; exists {
		return nil
	}
	if d.resolving[alias] {
		return fmt.Errorf("dependency cycle detected at %s", alias)
	}
	d.resolving[alias] = true
	defer delete(d.resolving, alias)

	resolved, err := d.resolveDependency(alias, spec)
	if err != nil {
		return err
	}
	pkg := resolved.pkg
	if pkg.Name != alias {
		return fmt.Errorf("dependency %q: package at %s is named %q", alias, d.displayPath(resolved.root), pkg.Name)
	}

	pkg.Dependencies = nil
	if resolved.manifest != nil {
		for _, childName := range resolved.manifest.DependencyNames() {
			childSpec := resolved.manifest.Dependencies[childName]
			if childSpec == nil {
				return fmt.Errorf("dependency %s lists %s without descriptor", pkg.Name, childName)
			}
			if err := d.installDependency(childName, d.rootedSpec(childSpec, resolved.root)); err != nil {
				return err
			}
			child := d.resolved[driver.PackageName(childName)]
			pkg.Dependencies = append(pkg.Dependencies, driver.LockedDependency{
				Name:    child.Name,
				Version: child.Version,
			})
		}
	}

	d.resolved[alias] = pkg
	return nil
}

// rootedSpec copies spec with a relative path made absolute against base.
func (d *dependencyInstaller) rootedSpec(spec *driver.DependencySpec, base string) *driver.DependencySpec {
	clone := *spec
	if clone.Path != "" && !filepath.IsAbs(clone.Path) && base != "" {
		clone.Path = filepath.Clean(filepath.Join(base, clone.Path))
	}
	return &clone
}

func (d *dependencyInstaller) resolveDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	switch {
	case spec.Path != "":
		return d.resolvePathDependency(name, spec)
	case spec.Git != "":
		return d.resolveGitDependency(name, spec)
	default:
		return nil, fmt.Errorf("dependency %q: unsupported descriptor", name)
	}
}

func (d *dependencyInstaller) resolvePathDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	abs, err := filepath.Abs(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: resolve path %q: %w", name, spec.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: stat %s: %w", name, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, abs)
	}

	manifestPath := filepath.Join(abs, driver.ManifestFileName)
	depManifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: load manifest %s: %w", name, manifestPath, err)
	}

	version := depManifest.Version
	if version == "" {
		version = "0.0.0-dev"
	}

	d.logs = append(d.logs, fmt.Sprintf("linked %s %s (%s)", depManifest.Name, version, d.displayPath(abs)))

	return &resolvedPackage{
		pkg: &driver.LockedPackage{
			Name:    depManifest.Name,
			Version: version,
			Source:  driver.SourcePathPrefix + abs,
		},
		manifest: depManifest,
		root:     abs,
	}, nil
}

func (d *dependencyInstaller) resolveGitDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	if d.git == nil {
		return nil, fmt.Errorf("dependency %q: git support unavailable", name)
	}

	if pkg, ok := d.reusableGitPackage(name, spec); ok {
		d.logs = append(d.logs, fmt.Sprintf("using locked git dependency %s (%s)", pkg.Name, pkg.Version))
		return d.gitPackage(name, pkg)
	}

	pkg, _, err := d.git.Fetch(name, spec)
	if err != nil {
		return nil, err
	}
	d.logs = append(d.logs, fmt.Sprintf("fetched git dependency %s (%s)", pkg.Name, pkg.Version))
	return d.gitPackage(name, pkg)
}

// reusableGitPackage returns the locked entry for a git dependency when it
// still matches the manifest and its checkout is cached, so installs stay
// on the locked commit until the dependency is updated.
func (d *dependencyInstaller) reusableGitPackage(name string, spec *driver.DependencySpec) (*driver.LockedPackage, bool) {
	prior, ok := d.locked[name]
	if !ok || !strings.HasPrefix(prior.Source, gitSource(spec.Git, "")) {
		return nil, false
	}
	_, descriptor := gitRevisionFromSpec(spec)
	commit := strings.TrimPrefix(prior.Source, gitSource(spec.Git, ""))
	if prior.Version != gitPinnedVersion(descriptor, commit) {
		return nil, false
	}
	if _, err := os.Stat(driver.CheckoutDir(d.cacheDir, name, prior.Version)); err != nil {
		return nil, false
	}
	reuse := *prior
	reuse.Dependencies = nil
	return &reuse, true
}

func (d *dependencyInstaller) gitPackage(name string, pkg *driver.LockedPackage) (*resolvedPackage, error) {
	rootDir := driver.CheckoutDir(d.cacheDir, name, pkg.Version)
	manifestPath := filepath.Join(rootDir, driver.ManifestFileName)
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dependency %q: git checkout has no %s", name, driver.ManifestFileName)
		}
		return nil, fmt.Errorf("dependency %q: load manifest %s: %w", name, manifestPath, err)
	}
	pkg.Name = manifest.Name
	return &resolvedPackage{
		pkg:      pkg,
		manifest: manifest,
		root:     rootDir,
	}, nil
}

func (d *dependencyInstaller) displayPath(path string) string {
	if d.manifestRoot != "" {
		if rel, err := filepath.Rel(d.manifestRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

func lockedPackageEqual(a, b *driver.LockedPackage) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Version != b.Version || a.Source != b.Source || a.Checksum != b.Checksum {
		return false
	}
	if len(a.Dependencies) != len(b.Dependencies) {
		return false
	}
	for i := range a.Dependencies {
		if a.Dependencies[i] != b.Dependencies[i] {
			return false
		}
	}
	return true
}
