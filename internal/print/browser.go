// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package print

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoBrowser is returned when no Chrome or Chromium binary is installed.
var ErrNoBrowser = errors.New("no headless browser found")

// browserBins are tried in order by DetectBrowser.
var browserBins = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
	"headless-shell",
}

// executor abstracts command lookup and execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

var defaultExec = &osExecutor{}

// DetectBrowser returns the path of the first browser on PATH that
// answers --version.
func DetectBrowser() (string, error) {
	return detectBrowser(defaultExec)
}

func detectBrowser(exec executor) (string, error) {
	for _, bin := range browserBins {
		path, err := exec.LookPath(bin)
		if err != nil {
			continue
		}
		if exec.RunSilent(path, "--version") == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoBrowser, strings.Join(browserBins, ", "))
}
