package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/driver"
	"glang/interpreter-go/pkg/interpreter"
	"glang/interpreter-go/pkg/runtime"
)

const cliToolVersion = "glang-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runREPL()
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "deps":
		return runDeps(args[1:])
	case "graph":
		return runGraph(args[1:])
	case "repl":
		return runREPL()
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	manifest, manifestErr := loadManifestFrom(".")
	if manifestErr != nil && !errors.Is(manifestErr, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", manifestErr)
		return 1
	}

	entry := ""
	switch len(args) {
	case 0:
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "glang run requires a manifest target or source file (%s not found)\n", driver.ManifestName)
			return 1
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		entry = resolveTargetMain(manifest, target)
	case 1:
		entry = args[0]
		if manifest != nil {
			if target, ok := manifest.FindTarget(args[0]); ok {
				entry = resolveTargetMain(manifest, target)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	session := newSession(manifest)
	if _, err := session.RunFile(entry); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

func runDeps(args []string) int {
	if len(args) != 1 || args[0] != "install" {
		fmt.Fprintln(os.Stderr, "glang deps requires the install subcommand")
		return 1
	}
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	fetcher, err := driver.NewFetcher(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))

	logs, err := fetcher.FetchAll(manifest)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch dependencies: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

// runGraph loads a file and dumps the resulting call graph without running
// anything beyond declarations and top-level statements.
func runGraph(args []string) int {
	format := "text"
	var entry string
	for _, arg := range args {
		switch arg {
		case "--dot":
			format = "dot"
		case "--mermaid":
			format = "mermaid"
		default:
			if entry != "" {
				fmt.Fprintf(os.Stderr, "unexpected argument %q\n", arg)
				return 1
			}
			entry = arg
		}
	}
	if entry == "" {
		fmt.Fprintln(os.Stderr, "glang graph requires a source file")
		return 1
	}

	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	session := newSession(manifest)
	if _, err := session.RunFile(entry); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	graph := session.Interpreter().CallGraph()
	switch format {
	case "dot":
		fmt.Fprintln(os.Stdout, graph.DOT())
	case "mermaid":
		fmt.Fprintln(os.Stdout, graph.Mermaid())
	default:
		fmt.Fprintln(os.Stdout, graph.Dump())
	}
	return 0
}

func newSession(manifest *driver.Manifest) *driver.Session {
	interp := interpreter.New()
	registerPrint(interp)
	loader := driver.NewLoader(collectSearchPaths(manifest))
	return driver.NewSession(interp, loader)
}

func collectSearchPaths(manifest *driver.Manifest) []string {
	seen := make(map[string]struct{})
	var paths []string

	add := func(path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		paths = append(paths, abs)
	}

	if cwd, err := os.Getwd(); err == nil {
		add(cwd)
	}
	if manifest != nil {
		root := filepath.Dir(manifest.Path)
		add(root)
		add(filepath.Join(root, filepath.FromSlash(driver.DepsDirName)))
	}
	for _, part := range strings.Split(os.Getenv("GLANG_PATH"), string(os.PathListSeparator)) {
		add(strings.TrimSpace(part))
	}
	return paths
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func resolveTargetMain(manifest *driver.Manifest, target *driver.TargetSpec) string {
	mainPath := strings.TrimSpace(target.Main)
	if mainPath == "" || filepath.IsAbs(mainPath) {
		return mainPath
	}
	return filepath.Join(filepath.Dir(manifest.Path), filepath.FromSlash(mainPath))
}

func registerPrint(interp *interpreter.Interpreter) {
	interp.RegisterBuiltin("print", -1, func(args []runtime.Value, _ ast.Position) (runtime.Value, error) {
		parts := make([]string, len(args))
		for idx, arg := range args {
			parts[idx] = runtime.Display(arg)
		}
		fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
		return runtime.NoneValue{}, nil
	})
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  glang                      start the REPL")
	fmt.Fprintln(os.Stderr, "  glang run [target|file]    run a manifest target or source file")
	fmt.Fprintln(os.Stderr, "  glang graph [--dot|--mermaid] <file>")
	fmt.Fprintln(os.Stderr, "  glang deps install")
	fmt.Fprintln(os.Stderr, "  glang version")
}
