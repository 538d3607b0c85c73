package tagdict

import (
	"encoding/gob"
	"fmt"
	"os"
)

// loadGob deserializes a dictionary File from a gob-encoded cache.
func loadGob(path string, file *File) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(file); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	return nil
}

// SaveGob serializes a dictionary File to a gob-encoded cache at path.
// The importer writes these so serve-time loads skip YAML parsing.
func SaveGob(file *File, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(file); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}
