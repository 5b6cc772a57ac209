package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// migrateCalibration converts a legacy calibration.json (as written by
// the original Python receiver) into calibration.yml. The legacy file
// parses with the same loader since YAML is a superset of JSON; this
// just validates it and rewrites it in the current format.
func migrateCalibration(dir string) error {
	src := filepath.Join(dir, "calibration.json")
	dst := filepath.Join(dir, "calibration.yml")

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", dst)
	}

	store, err := LoadCalibration(src)
	if err != nil {
		return fmt.Errorf("load legacy calibration: %w", err)
	}

	out := make(map[string]any, store.Len()+1)
	out["global"] = store.Global()
	for _, idx := range store.Indices() {
		cal, _ := store.Lookup(idx)
		out[strconv.Itoa(idx)] = cal
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	fmt.Printf("displaywriter: migrated %d keys: %s -> %s\n", store.Len(), src, dst)
	return nil
}
