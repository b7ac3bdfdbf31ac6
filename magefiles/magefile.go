//go:build mage

// Package main contains Mage build targets for walkthrough developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the tooling expects.
var projectDirs = []string{
	"bin",
	"sample",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "walkthrough"
	cmdPkg  = "./cmd/walkthrough"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	mg.Deps(Init)
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of all packages.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Smoke builds the binary and the sample inputs and runs a build without
// the print document.
func Smoke() error {
	mg.Deps(Build, Sample)
	return sh.RunV(filepath.Join(binDir, binName), "build",
		"--zip", filepath.Join(sampleDir, sampleZip),
		"--pdf", filepath.Join(sampleDir, sampleCSV),
		"--sections", filepath.Join(sampleDir, sampleSections),
		"--out", filepath.Join(sampleDir, "walkthrough_package"),
		"--no-print",
	)
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, testLines := 0, 0
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == "sample" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += n
		} else {
			prodLines += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	docWords := 0
	for _, doc := range []string{"README.md", "DESIGN.md"} {
		data, err := os.ReadFile(doc)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s: %w", doc, err)
		}
		docWords += len(strings.Fields(string(data)))
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// countLines counts non-blank lines in the file at path.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
