// Package catalog loads achievement definitions from TOML overlay files.
// The built-in defaults ship in code; operators can add seasonal or
// promotional achievements, or re-tune reward values, by dropping a
// TOML file next to the database.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/takato23/cocina/internal/domain"
)

type file struct {
	Achievements []domain.AchievementDef `toml:"achievement"`
}

// Load parses a TOML overlay file into achievement definitions.
// A missing file is not an error; it returns an empty slice.
func Load(path string) ([]domain.AchievementDef, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	for _, def := range f.Achievements {
		if def.ID == "" {
			return nil, fmt.Errorf("catalog %s: achievement with empty id", path)
		}
		if len(def.Requirements) == 0 {
			return nil, fmt.Errorf("catalog %s: achievement %q: %w", path, def.ID, domain.ErrEmptyRequirements)
		}
		for _, r := range def.Requirements {
			if r.Target <= 0 {
				return nil, fmt.Errorf("catalog %s: achievement %q: %w", path, def.ID, domain.ErrInvalidTarget)
			}
		}
	}
	return f.Achievements, nil
}

// Merge overlays extra definitions onto base. An overlay entry with an ID
// already present in base replaces it; new IDs append in overlay order.
func Merge(base, overlay []domain.AchievementDef) []domain.AchievementDef {
	if len(overlay) == 0 {
		return base
	}

	index := make(map[string]int, len(base))
	merged := make([]domain.AchievementDef, len(base))
	copy(merged, base)
	for i, def := range merged {
		index[def.ID] = i
	}

	for _, def := range overlay {
		if i, ok := index[def.ID]; ok {
			merged[i] = def
		} else {
			index[def.ID] = len(merged)
			merged = append(merged, def)
		}
	}
	return merged
}
