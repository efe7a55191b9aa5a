package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// LockFileName is the lockfile written next to package.yml.
const LockFileName = "package.lock"

// Source prefixes recorded in the lockfile.
const (
	SourcePathPrefix = "path:"
	SourceGitPrefix  = "git:"
)

// Lockfile models the package.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Packages  []*LockedPackage
}

// LockedPackage captures a single resolved dependency entry. Source is
// either "path:<dir>" or "git:<url>#<commit>".
type LockedPackage struct {
	Name         string
	Version      string
	Source       string
	Checksum     string
	Dependencies []LockedDependency
}

// LockedDependency identifies a dependency edge in the resolved graph.
type LockedDependency struct {
	Name    string
	Version string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      PackageName(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// LoadLockfile parses package.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the locked package with the given name.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	if l == nil {
		return nil, false
	}
	return lo.Find(l.Packages, func(pkg *LockedPackage) bool {
		return pkg != nil && pkg.Name == PackageName(name)
	})
}

// LoadOrder lists the packages reachable from roots with every package
// after all of its dependencies. Ties keep lockfile (name) order.
func (l *Lockfile) LoadOrder(roots []string) ([]*LockedPackage, error) {
	var (
		order    []*LockedPackage
		done     = make(map[string]bool)
		visiting = make(map[string]bool)
	)
	var visit func(name, from string) error
	visit = func(name, from string) error {
		name = PackageName(name)
		if done[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("lockfile: dependency cycle through %s", name)
		}
		pkg, ok := l.Find(name)
		if !ok {
			return fmt.Errorf("lockfile: %s depends on %s, which is not locked; run `fun deps install`", from, name)
		}
		visiting[name] = true
		deps := lo.Map(pkg.Dependencies, func(dep LockedDependency, _ int) string { return dep.Name })
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		visiting[name] = false
		done[name] = true
		order = append(order, pkg)
		return nil
	}
	sorted := append([]string{}, roots...)
	sort.Strings(sorted)
	root := "root package"
	if l != nil && l.Root != "" {
		root = l.Root
	}
	for _, name := range sorted {
		if err := visit(name, root); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Dir resolves the directory holding the package sources. Git packages live
// in the cache under home.
func (p *LockedPackage) Dir(home string) (string, error) {
	switch {
	case strings.HasPrefix(p.Source, SourcePathPrefix):
		return strings.TrimPrefix(p.Source, SourcePathPrefix), nil
	case strings.HasPrefix(p.Source, SourceGitPrefix):
		return CheckoutDir(home, p.Name, p.Version), nil
	default:
		return "", fmt.Errorf("lockfile: package %s has unsupported source %q", p.Name, p.Source)
	}
}

// CheckoutDir is where the git checkout of name at version is cached.
func CheckoutDir(home, name, version string) string {
	return filepath.Join(home, "pkg", "src", PathSegment(name), PathSegment(version))
}

// PathSegment makes value safe to use as a single directory name.
func PathSegment(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = PackageName(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	l.Packages = lo.Filter(l.Packages, func(pkg *LockedPackage, _ int) bool { return pkg != nil })
	sort.SliceStable(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
	for _, pkg := range l.Packages {
		pkg.Name = PackageName(pkg.Name)
		pkg.Version = strings.TrimSpace(pkg.Version)
		pkg.Source = strings.TrimSpace(pkg.Source)
		pkg.Checksum = strings.TrimSpace(pkg.Checksum)
		for k := range pkg.Dependencies {
			pkg.Dependencies[k].Name = PackageName(pkg.Dependencies[k].Name)
			pkg.Dependencies[k].Version = strings.TrimSpace(pkg.Dependencies[k].Version)
		}
		sort.SliceStable(pkg.Dependencies, func(i, j int) bool {
			if pkg.Dependencies[i].Name == pkg.Dependencies[j].Name {
				return pkg.Dependencies[i].Version < pkg.Dependencies[j].Version
			}
			return pkg.Dependencies[i].Name < pkg.Dependencies[j].Name
		})
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	pkgs := lo.Map(l.Packages, func(pkg *LockedPackage, _ int) lockfilePackage {
		return lockfilePackage{
			Name:     pkg.Name,
			Version:  pkg.Version,
			Source:   pkg.Source,
			Checksum: pkg.Checksum,
			Dependencies: lo.Map(pkg.Dependencies, func(dep LockedDependency, _ int) lockfileDependency {
				return lockfileDependency{Name: dep.Name, Version: dep.Version}
			}),
		}
	})
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Packages:  pkgs,
	}
}

type lockfileDisk struct {
	Root      string            `yaml:"root"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Packages  []lockfilePackage `yaml:"packages"`
}

type lockfilePackage struct {
	Name         string               `yaml:"name"`
	Version      string               `yaml:"version"`
	Source       string               `yaml:"source"`
	Checksum     string               `yaml:"checksum"`
	Dependencies []lockfileDependency `yaml:"dependencies"`
}

type lockfileDependency struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Packages: lo.Map(d.Packages, func(pkg lockfilePackage, _ int) *LockedPackage {
			return &LockedPackage{
				Name:     pkg.Name,
				Version:  pkg.Version,
				Source:   pkg.Source,
				Checksum: pkg.Checksum,
				Dependencies: lo.Map(pkg.Dependencies, func(dep lockfileDependency, _ int) LockedDependency {
					return LockedDependency{Name: dep.Name, Version: dep.Version}
				}),
			}
		}),
	}
	lock.normalize()
	return lock
}
