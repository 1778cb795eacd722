package gamedata

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"gopkg.in/yaml.v3"
)

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadYAML decodes an embedded YAML file into dst. Fields absent from the
// file keep the values dst already holds, so callers can pre-fill defaults.
func LoadYAML(filename string, dst any) error {
	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", filename, err)
	}
	return nil
}

// LoadImage decodes an embedded PNG.
func LoadImage(filename string) (image.Image, error) {
	f, err := dataFS.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded file %s: %w", filename, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG %s: %w", filename, err)
	}
	return img, nil
}
