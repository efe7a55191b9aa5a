package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/parser"
)

// HomeEnv overrides the directory dependency checkouts are cached in.
const HomeEnv = "FUN_HOME"

// DefaultHome returns $FUN_HOME, or ~/.fun when it is unset.
func DefaultHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("loader: resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".fun"), nil
}

// Loader reads source files and packages into programs.
type Loader struct {
	home string
}

// NewLoader constructs a loader resolving git dependencies under home.
func NewLoader(home string) *Loader {
	return &Loader{home: home}
}

// ParseFile reads and parses one source file. Syntax errors come back as a
// *Diagnostic carrying the file path.
func ParseFile(path string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	decls, err := parser.ParseProgram(data)
	if err != nil {
		return nil, diagnosticFor(path, ast.ZeroSpan(), err)
	}
	return &SourceFile{Path: path, Decls: decls}, nil
}

// LoadFile builds a program from a single standalone source file.
func (l *Loader) LoadFile(path string) (*Program, error) {
	file, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &Program{Files: []*SourceFile{file}}, nil
}

// LoadPackage builds the program for a package: the sources of its locked
// dependencies, dependencies before dependents, then its own sources and
// main file.
func (l *Loader) LoadPackage(manifest *Manifest) (*Program, error) {
	if manifest == nil {
		return nil, fmt.Errorf("loader: nil manifest")
	}
	paths := manifest.SourcePaths()
	if len(paths) == 0 {
		return nil, fmt.Errorf("loader: package %s declares no sources", manifest.Name)
	}
	return l.load(manifest, paths)
}

// LoadFileInPackage builds the program for one source file that lives in a
// package: the package's dependencies followed by the file alone.
func (l *Loader) LoadFileInPackage(manifest *Manifest, path string) (*Program, error) {
	if manifest == nil {
		return l.LoadFile(path)
	}
	return l.load(manifest, []string{path})
}

func (l *Loader) load(manifest *Manifest, paths []string) (*Program, error) {
	program := &Program{}
	deps, err := l.dependencyFiles(manifest)
	if err != nil {
		return nil, err
	}
	program.Files = append(program.Files, deps...)
	for _, path := range paths {
		file, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		program.Files = append(program.Files, file)
	}
	return program, nil
}

func (l *Loader) dependencyFiles(manifest *Manifest) ([]*SourceFile, error) {
	if len(manifest.Dependencies) == 0 {
		return nil, nil
	}
	lockPath := filepath.Join(manifest.Dir(), LockFileName)
	lock, err := LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loader: %s not found; run `fun deps install`", lockPath)
		}
		return nil, err
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("loader: lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	order, err := lock.LoadOrder(manifest.DependencyNames())
	if err != nil {
		return nil, err
	}
	var files []*SourceFile
	for _, pkg := range order {
		pkgFiles, err := l.loadDependency(pkg)
		if err != nil {
			return nil, err
		}
		files = append(files, pkgFiles...)
	}
	return files, nil
}

func (l *Loader) loadDependency(pkg *LockedPackage) ([]*SourceFile, error) {
	dir, err := pkg.Dir(l.home)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("loader: dependency %s: %w", pkg.Name, err)
	}
	var files []*SourceFile
	for _, path := range manifest.SourcePaths() {
		file, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		file.Package = pkg.Name
		files = append(files, file)
	}
	return files, nil
}
