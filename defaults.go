package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/calibration.yml
var defaultConfigs embed.FS

// initConfig creates the config directory and extracts the embedded
// starter calibration file, unless one already exists.
func initConfig(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	dst := filepath.Join(dir, "calibration.yml")
	if _, err := os.Stat(dst); err == nil {
		fmt.Printf("  skip calibration.yml (already exists)\n")
		return nil
	}

	data, err := defaultConfigs.ReadFile("defaults/calibration.yml")
	if err != nil {
		return fmt.Errorf("read embedded default: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	fmt.Printf("  created %s\n", dst)
	return nil
}
