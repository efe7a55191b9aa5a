package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"fun/interpreter-go/pkg/driver"
)

func loadTestManifest(t *testing.T, path string) *driver.Manifest {
	t.Helper()
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	return manifest
}

func TestDependencyInstaller_PathDependency(t *testing.T) {
	root := tempRoot(t)
	mainDir := filepath.Join(root, "app")
	depDir := filepath.Join(root, "dep")

	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
version: 0.1.0
dependencies:
  dep:
    path: ../dep
`)
	writeFile(t, filepath.Join(depDir, "package.yml"), `
name: dep
version: 0.2.0
`)

	manifest := loadTestManifest(t, filepath.Join(mainDir, "package.yml"))
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	installer := newDependencyInstaller(manifest, filepath.Join(root, ".fun"))

	changed, logs, err := installer.Install(lock)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile to change for new dependency")
	}
	if len(logs) != 1 || logs[0] != "linked dep 0.2.0 ("+depDir+")" {
		t.Fatalf("unexpected logs %#v", logs)
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("lock packages = %#v", lock.Packages)
	}
	pkg := lock.Packages[0]
	if pkg.Name != "dep" || pkg.Version != "0.2.0" {
		t.Fatalf("lock entry unexpected: %#v", pkg)
	}
	if pkg.Source != driver.SourcePathPrefix+depDir {
		t.Fatalf("unexpected source %q", pkg.Source)
	}

	changed, _, err = newDependencyInstaller(manifest, filepath.Join(root, ".fun")).Install(lock)
	if err != nil || changed {
		t.Fatalf("second install changed=%v err=%v", changed, err)
	}
}

func TestDependencyInstaller_DashedNamesMatchLockEntries(t *testing.T) {
	root := tempRoot(t)
	mainDir := filepath.Join(root, "app")
	depDir := filepath.Join(root, "text-utils")

	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
dependencies:
  text-utils:
    path: ../text-utils
`)
	writeFile(t, filepath.Join(depDir, "package.yml"), `
name: text-utils
version: 1.0.0
`)

	manifest := loadTestManifest(t, filepath.Join(mainDir, "package.yml"))
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	installer := newDependencyInstaller(manifest, filepath.Join(root, ".fun"))

	if _, _, err := installer.Install(lock); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if len(lock.Packages) != 1 || lock.Packages[0].Name != "text_utils" {
		t.Fatalf("lock packages = %#v", lock.Packages)
	}
}

func TestDependencyInstaller_PathDependencyTransitive(t *testing.T) {
	root := tempRoot(t)
	mainDir := filepath.Join(root, "app")

	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
dependencies:
  dep:
    path: ../dep
  sub:
    path: ../sub
`)
	writeFile(t, filepath.Join(root, "dep", "package.yml"), `
name: dep
version: 1.0.0
dependencies:
  sub:
    path: ../sub
`)
	writeFile(t, filepath.Join(root, "sub", "package.yml"), `
name: sub
`)

	manifest := loadTestManifest(t, filepath.Join(mainDir, "package.yml"))
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	changed, _, err := newDependencyInstaller(manifest, filepath.Join(root, ".fun")).Install(lock)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile to record new dependencies")
	}
	if len(lock.Packages) != 2 {
		t.Fatalf("expected two packages in lock, got %#v", lock.Packages)
	}
	dep := findLockedPackage(lock.Packages, "dep")
	sub := findLockedPackage(lock.Packages, "sub")
	if dep == nil || sub == nil {
		t.Fatalf("missing packages: %#v", lock.Packages)
	}
	if len(dep.Dependencies) != 1 || dep.Dependencies[0] != (driver.LockedDependency{Name: "sub", Version: "0.0.0-dev"}) {
		t.Fatalf("dep dependencies incorrect: %#v", dep.Dependencies)
	}
	if len(sub.Dependencies) != 0 {
		t.Fatalf("sub should have no dependencies, got %#v", sub.Dependencies)
	}
}

func TestDependencyInstaller_DetectsCycle(t *testing.T) {
	root := tempRoot(t)
	writeFile(t, filepath.Join(root, "app", "package.yml"), `
name: app
dependencies:
  left:
    path: ../left
`)
	writeFile(t, filepath.Join(root, "left", "package.yml"), `
name: left
dependencies:
  right:
    path: ../right
`)
	writeFile(t, filepath.Join(root, "right", "package.yml"), `
name: right
dependencies:
  left:
    path: ../left
`)

	manifest := loadTestManifest(t, filepath.Join(root, "app", "package.yml"))
	_, _, err := newDependencyInstaller(manifest, filepath.Join(root, ".fun")).Install(driver.NewLockfile("app", cliToolVersion))
	if err == nil || !strings.Contains(err.Error(), "dependency cycle detected at left") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestDependencyInstaller_RejectsMismatchedName(t *testing.T) {
	root := tempRoot(t)
	writeFile(t, filepath.Join(root, "app", "package.yml"), `
name: app
dependencies:
  util:
    path: ../helpers
`)
	writeFile(t, filepath.Join(root, "helpers", "package.yml"), "name: helpers")

	manifest := loadTestManifest(t, filepath.Join(root, "app", "package.yml"))
	_, _, err := newDependencyInstaller(manifest, filepath.Join(root, ".fun")).Install(driver.NewLockfile("app", cliToolVersion))
	if err == nil || !strings.Contains(err.Error(), `is named "helpers"`) {
		t.Fatalf("expected name mismatch error, got %v", err)
	}
}

func TestDependencyInstaller_MissingPath(t *testing.T) {
	root := tempRoot(t)
	writeFile(t, filepath.Join(root, "app", "package.yml"), `
name: app
dependencies:
  util:
    path: ../missing
`)
	manifest := loadTestManifest(t, filepath.Join(root, "app", "package.yml"))
	_, _, err := newDependencyInstaller(manifest, filepath.Join(root, ".fun")).Install(driver.NewLockfile("app", cliToolVersion))
	if err == nil || !strings.Contains(err.Error(), `dependency "util": stat`) {
		t.Fatalf("expected stat error, got %v", err)
	}
}

func TestDependencyInstaller_GitDependency(t *testing.T) {
	root := tempRoot(t)
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "package.yml"), `
name: gitpkg
version: 0.2.0
sources: core.fun
`)
	writeFile(t, filepath.Join(repo, "core.fun"), "let value = 3;")
	rev := initGitRepo(t, repo)

	mainDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
dependencies:
  gitpkg:
    git: `+repo+`
    rev: `+rev+`
`)

	manifest := loadTestManifest(t, filepath.Join(mainDir, "package.yml"))
	cacheDir := filepath.Join(root, "cache")
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)

	changed, _, err := newDependencyInstaller(manifest, cacheDir).Install(lock)
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change for git dependency")
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("lock packages unexpected: %#v", lock.Packages)
	}
	pkg := lock.Packages[0]
	if want := driver.SourceGitPrefix + repo + "#" + rev; pkg.Source != want {
		t.Fatalf("pkg.Source = %q, want %q", pkg.Source, want)
	}
	if pkg.Name != "gitpkg" || pkg.Version != rev {
		t.Fatalf("unexpected lock entry %#v", pkg)
	}
	if pkg.Checksum == "" {
		t.Fatalf("expected checksum for git package")
	}
	dir, err := pkg.Dir(cacheDir)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "core.fun")); err != nil {
		t.Fatalf("expected cached git package at %s: %v", dir, err)
	}
}

func TestDependencyInstaller_GitDependencyTag(t *testing.T) {
	root := tempRoot(t)
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "package.yml"), "name: gitpkg")
	rev := initGitRepo(t, repo)
	opened, err := git.PlainOpen(repo)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	if _, err := opened.CreateTag("v1.0.0", plumbing.NewHash(rev), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	writeFile(t, filepath.Join(root, "app", "package.yml"), `
name: app
dependencies:
  gitpkg:
    git: `+repo+`
    tag: v1.0.0
`)
	manifest := loadTestManifest(t, filepath.Join(root, "app", "package.yml"))
	cacheDir := filepath.Join(root, "cache")
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	if _, _, err := newDependencyInstaller(manifest, cacheDir).Install(lock); err != nil {
		t.Fatalf("Install error: %v", err)
	}
	pkg := findLockedPackage(lock.Packages, "gitpkg")
	if pkg == nil || pkg.Version != "v1.0.0@"+rev {
		t.Fatalf("unexpected lock entry %#v", pkg)
	}
	cached := filepath.Join(cacheDir, "pkg", "src", "gitpkg", "v1.0.0_"+rev)
	if _, err := os.Stat(cached); err != nil {
		t.Fatalf("expected cached git package at %s: %v", cached, err)
	}
}

func TestGitPinnedVersion(t *testing.T) {
	cases := []struct {
		descriptor, commit, want string
	}{
		{"", "abc", "abc"},
		{"abc", "abc", "abc"},
		{"main", "abc", "main@abc"},
		{"v1", "", "v1"},
	}
	for _, tc := range cases {
		if got := gitPinnedVersion(tc.descriptor, tc.commit); got != tc.want {
			t.Fatalf("gitPinnedVersion(%q, %q) = %q, want %q", tc.descriptor, tc.commit, got, tc.want)
		}
	}
}

func TestDirChecksumIgnoresGitMetadata(t *testing.T) {
	dir := tempRoot(t)
	writeFile(t, filepath.Join(dir, "a.fun"), "let a = 1;")
	before, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/master")
	after, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	if before != after {
		t.Fatalf("checksum changed with .git contents")
	}
	writeFile(t, filepath.Join(dir, "a.fun"), "let a = 2;")
	if changed, _ := dirChecksum(dir); changed == before {
		t.Fatalf("checksum must change with source contents")
	}
}
