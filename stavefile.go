//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/adocast"

// smokeDocument exercises the block and inline builders the smoke target
// checks end to end.
const smokeDocument = `= Smoke

[[intro]]
== Intro

Some *strong* and _em_ text, see <<intro>> and https://example.com[Example].

* one
** two

[source,go]
----
package main
----

[cols="1,a"]
|===
|plain |*nested*
|===
`

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"s":   Smoke,
	"fmt": Lint.Fmt,
	"fz":  Bench.Fuzz,
	"bp":  Bench.Parser,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/adocast with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building adocast...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/adocast")
}

// Check runs format, lint, test and the smoke run sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Smoke)
}

// Clean removes the binary, smoke artifacts and coverage output.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs adocast to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing adocast...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/adocast")
}

// Deps downloads and tidies module dependencies.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Smoke builds the binary, prints a sample document as a tree and converts
// it with a report, failing on any error node.
func Smoke() error {
	st.Deps(Build)

	dir := filepath.Join("bin", "smoke")
	if err := sh.Rm(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		return fmt.Errorf("create smoke dir: %w", err)
	}
	doc := filepath.Join(dir, "docs", "smoke.adoc")
	if err := os.WriteFile(doc, []byte(smokeDocument), 0o600); err != nil {
		return fmt.Errorf("write smoke document: %w", err)
	}

	if err := sh.RunV(binary, "parse", "--strict", "--summary", "--format", "tree", doc); err != nil {
		return fmt.Errorf("parse smoke document: %w", err)
	}
	out := filepath.Join(dir, "out")
	report := filepath.Join(dir, "report.json")
	if err := sh.RunV(binary, "convert", "--strict", "-d", out, "--report", report, filepath.Join(dir, "docs")); err != nil {
		return fmt.Errorf("convert smoke document: %w", err)
	}

	tree := filepath.Join(out, dir, "docs", "smoke.json")
	if _, err := os.Stat(tree); err != nil {
		return fmt.Errorf("expected %s: %w", tree, err)
	}
	if _, err := os.Stat(report); err != nil {
		return fmt.Errorf("expected %s: %w", report, err)
	}
	fmt.Println("✓ Smoke run produced", tree)
	return nil
}

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Runner runs the concurrent conversion and file cache tests repeatedly
// under the race detector.
func (Test) Runner() error {
	count := cmp.Or(os.Getenv("COUNT"), "10")
	fmt.Printf("Running runner and cache tests %s times...\n", count)
	return sh.RunV("go", "test", "-race", "-count", count, "./pkg/runner", "./pkg/environment")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Gate runs every check CI requires, then a short fuzz pass.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.CI,
		Test.Default,
		Smoke,
		CI.ModTidy,
	)
	if err := os.Setenv("FUZZTIME", cmp.Or(os.Getenv("FUZZTIME"), "10s")); err != nil {
		return err
	}
	st.Deps(Bench.Fuzz)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// ModTidy fails when 'go mod tidy' would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy' - please commit the changes")
	}
	return nil
}

// Fuzz fuzzes the AsciiDoc grammar for FUZZTIME (default 30s).
func (Bench) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	fmt.Printf("Fuzzing the grammar for %s...\n", fuzzTime)
	return sh.RunV("go", "test", "-run", "^$", "-fuzz", "^FuzzParse$", "-fuzztime", fuzzTime, "./pkg/cst")
}

// Parser runs the grammar and transformer benchmarks.
func (Bench) Parser() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench=.", "-benchmem", "./pkg/cst", "./pkg/asciidoc")
}

// Detect runs the listing language detection benchmarks.
func (Bench) Detect() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench=.", "-benchmem", "./pkg/langdetect")
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects the version, commit and build date into cmd/adocast.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}

// readModFiles returns go.mod and go.sum concatenated. A missing go.sum
// reads as empty.
func readModFiles() (string, error) {
	mod, err := os.ReadFile("go.mod")
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	sum, err := os.ReadFile("go.sum")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read go.sum: %w", err)
	}
	return string(mod) + "\x00" + string(sum), nil
}
