//go:build mage

// Package main contains Mage build targets for inquire developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir    = "bin"
	binName   = "inquire"
	cmdPkg    = "./cmd/inquire"
	schemaDir = "baml_schemas"
)

// exampleSchema is written by Init when the schema directory is empty.
const exampleSchema = `classes:
  - name: Company
    description: A company described in the research text.
    fields:
      - name: name
        type: string
        required: true
      - name: founded
        type: int
      - name: headquarters
        type: string
      - name: products
        type: string[]
functions:
  - name: ExtractCompany
    returns: Company
    prompt: Extract the main company the research is about.
`

// Init creates the schema directory with an example definition.
func Init() error {
	if err := os.MkdirAll(schemaDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", schemaDir, err)
	}
	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		fmt.Printf("%s already has definitions, leaving it alone.\n", schemaDir)
		return nil
	}
	path := filepath.Join(schemaDir, "company.yaml")
	if err := os.WriteFile(path, []byte(exampleSchema), 0o644); err != nil {
		return err
	}
	fmt.Println("  ", path)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check vets the code and runs the tests.
func Check() error {
	mg.Deps(Vet)
	mg.Deps(Test)
	return nil
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Stats prints non-blank Go line counts for production and test code.
func Stats() error {
	var prod, test int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" || d.Name() == binDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countNonBlank(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

func countNonBlank(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
