package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fun/interpreter-go/pkg/driver"
	"fun/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "fun 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], executeProgram)
	case "check":
		return runEntry(args[1:], checkProgram)
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args, executeProgram)
	}
}

type programAction func(program *driver.Program, entry string) int

// runEntry loads either the package around the working directory (no
// arguments) or a single source file, then hands the program to action.
func runEntry(args []string, action programAction) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	home, err := driver.DefaultHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", driver.HomeEnv, err)
		return 1
	}
	loader := driver.NewLoader(home)

	if len(args) == 0 {
		manifest, err := loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintln(os.Stderr, "fun requires a source file or a package.yml in the current directory tree")
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return 1
		}
		program, err := loader.LoadPackage(manifest)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return action(program, manifest.EntryPoint())
	}

	entryPath, err := filepath.Abs(strings.TrimSpace(args[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", args[0], err)
		return 1
	}
	manifest, err := loadManifestFrom(filepath.Dir(entryPath))
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", args[0], err)
		return 1
	}
	program, err := loader.LoadFileInPackage(manifest, entryPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return action(program, manifest.EntryPoint())
}

func executeProgram(program *driver.Program, entry string) int {
	if _, err := driver.Execute(program, newContext(), driver.Options{EntryPoint: entry}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func checkProgram(program *driver.Program, entry string) int {
	result, err := driver.Check(program, newContext(), driver.Options{EntryPoint: entry})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, binding := range result.Bindings {
		fmt.Fprintf(os.Stdout, "%s : %s\n", binding.Name, binding.Type)
	}
	if result.Entry == nil {
		return 0
	}
	typ, err := result.EntryType()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s : %s\n", result.EntryPoint, typ)
	return 0
}

// newContext is the builtin context plus print bound to the current stdout.
func newContext() *interpreter.ProgramContext {
	typ, fn := interpreter.PrintBuiltin(os.Stdout)
	return interpreter.DefaultContext().InsertValue("print", typ, fn)
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fun run [file.fun]")
	fmt.Fprintln(os.Stderr, "  fun <file.fun>")
	fmt.Fprintln(os.Stderr, "  fun check [file.fun]")
	fmt.Fprintln(os.Stderr, "  fun deps install")
	fmt.Fprintln(os.Stderr, "  fun deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  fun --version")
}
