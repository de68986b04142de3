// Package prefs persists the browser's user preferences in
// ~/.config/fsefeed/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what the browser remembers between runs.
type Prefs struct {
	Theme string `toml:"theme"`
	// LastType is the make/model shown when browse starts without -type.
	LastType string `toml:"last_type,omitempty"`
	// RecentTypes lists recently browsed make/models, newest first.
	RecentTypes []string `toml:"recent_types,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/fsefeed/prefs.toml"
	defaultTheme     = "Nightfox"
	maxRecentTypes   = 8
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from path. Any problem reading or decoding the file
// yields defaults; preferences are never worth failing a run over.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalized(), nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Visit records makeModel as the last browsed type and moves it to the front
// of RecentTypes.
func (p *Prefs) Visit(makeModel string) {
	key := strings.TrimSpace(makeModel)
	if key == "" {
		return
	}
	p.LastType = key
	recent := make([]string, 0, len(p.RecentTypes)+1)
	recent = append(recent, key)
	for _, t := range p.RecentTypes {
		if t != key {
			recent = append(recent, t)
		}
	}
	if len(recent) > maxRecentTypes {
		recent = recent[:maxRecentTypes]
	}
	p.RecentTypes = recent
}

func (p Prefs) normalized() Prefs {
	out := Prefs{
		Theme:    strings.TrimSpace(p.Theme),
		LastType: strings.TrimSpace(p.LastType),
	}
	if out.Theme == "" {
		out.Theme = defaultTheme
	}
	seen := make(map[string]bool, len(p.RecentTypes))
	for _, t := range p.RecentTypes {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out.RecentTypes = append(out.RecentTypes, t)
		if len(out.RecentTypes) == maxRecentTypes {
			break
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
