package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the package manifest looked up next to sources.
const ManifestFileName = "package.yml"

// DefaultEntryPoint names the declaration a program runs.
const DefaultEntryPoint = "main"

// ErrManifestNotFound is returned when no package.yml exists in a directory
// or any of its parents.
var ErrManifestNotFound = errors.New("manifest: package.yml not found")

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Entry        string
	Sources      []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a dependency package comes from: a git
// repository pinned by at most one of rev, tag or branch, or a local path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start up to the filesystem root and returns the
// path of the first package.yml found.
func FindManifest(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	dir := filepath.Clean(abs)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// Dir returns the directory holding the manifest. Relative paths in the
// manifest resolve against it.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// EntryPoint returns the declared entry point name, defaulting to main.
func (m *Manifest) EntryPoint() string {
	if m == nil || m.Entry == "" {
		return DefaultEntryPoint
	}
	return m.Entry
}

// SourcePaths resolves sources followed by main against the manifest
// directory. Duplicates keep their first position.
func (m *Manifest) SourcePaths() []string {
	files := append([]string{}, m.Sources...)
	if m.Main != "" {
		files = append(files, m.Main)
	}
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.Dir(), path)
		}
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}

// DependencyNames returns the dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_']*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry != "" && !identifierPattern.MatchString(m.Entry) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is not a valid identifier", m.Entry))
	}
	for i, source := range m.Sources {
		if source == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] must be a non-empty path", i))
		}
	}
	for _, depName := range m.DependencyNames() {
		dep := m.Dependencies[depName]
		if dep == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: must specify git or path", depName))
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", depName, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Path != "" && d.Git != "" {
		errs = append(errs, "path dependencies cannot also specify git")
	}
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag or branch may be given")
	}
	if pins > 0 && d.Git == "" {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Main         string        `yaml:"main"`
	Entry        string        `yaml:"entry"`
	Sources      stringList    `yaml:"sources"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	deps := make(map[string]*DependencySpec, len(mf.Dependencies))
	for name, dep := range mf.Dependencies {
		deps[PackageName(name)] = dep.clone()
	}
	return &Manifest{
		Path:         path,
		Name:         PackageName(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Entry:        strings.TrimSpace(mf.Entry),
		Sources:      []string(mf.Sources),
		Dependencies: deps,
	}
}

func (d *DependencySpec) clone() *DependencySpec {
	if d == nil {
		return nil
	}
	copy := *d
	return &copy
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected mapping, found %s", value.ShortTag())
	}
}

// PackageName normalizes a package or dependency name the way it is stored
// in manifests and lockfiles: trimmed, with dashes turned into underscores.
func PackageName(name string) string {
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, "-", "_")
}
