// Package preconditions verifies a build can succeed before any geometry
// work starts.
package preconditions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/export"
	"github.com/CADit-app/maker-chips/internal/ui"
)

// Check verifies the output path and the input files the parameters
// reference. An unreadable image is reported as a warning only; the image
// part is skipped during assembly instead of failing the build.
func Check(outputPath string, params chip.Params) error {
	if err := CheckOutputPath(outputPath); err != nil {
		return err
	}

	if params.Image != nil {
		if err := validateReadable(params.Image.Path); err != nil {
			ui.PrintWarning(fmt.Sprintf("Image not readable, part will be skipped: %v", err))
		}
	}

	return nil
}

// CheckOutputPath verifies the extension is a supported output format and
// the target directory exists and is writable.
func CheckOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("output file must be specified")
	}
	if !export.IsSupported(path) {
		return fmt.Errorf("unsupported output format %q (supported: %s)",
			filepath.Ext(path), strings.Join(export.SupportedExtensions(), ", "))
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if info.Mode()&0200 == 0 {
		return fmt.Errorf("output directory is not writable: %s", dir)
	}

	return nil
}

// ValidateConfigFile checks a YAML parameter file exists and is readable.
func ValidateConfigFile(path string) error {
	return validateReadable(path)
}

func validateReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	file.Close()

	return nil
}
