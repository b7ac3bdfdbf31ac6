// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package print

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// finish validates the printed PDF, writes props into its info dictionary
// and returns its page count.
func finish(path string, props map[string]string) (int, error) {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("validating %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := api.AddPropertiesFile(path, tmp, props, conf); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("setting properties of %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return n, nil
}
