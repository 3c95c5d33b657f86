package form

import (
	_ "embed"
	"eventdesk/model"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed palette.yaml
var paletteYAML []byte

var (
	paletteOnce  sync.Once
	paletteItems []model.PaletteItem
	paletteErr   error
)

// Palette returns the static field catalog. It is parsed once.
func Palette() ([]model.PaletteItem, error) {
	paletteOnce.Do(func() {
		paletteItems, paletteErr = parsePalette(paletteYAML)
	})
	if paletteErr != nil {
		return nil, paletteErr
	}

	out := make([]model.PaletteItem, len(paletteItems))
	copy(out, paletteItems)
	return out, nil
}

func parsePalette(data []byte) ([]model.PaletteItem, error) {
	var items []model.PaletteItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}

	for _, item := range items {
		if !item.FieldType.Valid() {
			return nil, fmt.Errorf("parse palette: unknown field type %q", item.FieldType)
		}
	}
	return items, nil
}
