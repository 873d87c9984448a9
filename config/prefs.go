package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const themeKey = "THEME"

// Prefs is the persisted user preference file. The only preference is the
// colour theme.
type Prefs struct {
	path  string
	Theme string
}

// DefaultPrefsPath returns the preference file under the user config dir.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ghusers", "prefs.env")
}

// LoadPrefs reads the preference file at path. A missing file yields empty
// preferences. An empty path disables persistence.
func LoadPrefs(path string) (*Prefs, error) {
	p := &Prefs{path: path}
	if path == "" {
		return p, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, err
	}
	p.Theme = values[themeKey]
	return p, nil
}

// SetTheme records theme and writes the file.
func (p *Prefs) SetTheme(theme string) error {
	p.Theme = theme
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return godotenv.Write(map[string]string{themeKey: theme}, p.path)
}
