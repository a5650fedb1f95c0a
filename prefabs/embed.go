package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed presets/*.yaml
var PresetsFS embed.FS

// DiskRoot is the directory checked for overrides before the embedded files.
var DiskRoot = "prefabs"

// Load reads a preset file, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name, "presets")
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PresetsFS.ReadFile(clean)
}

// LoadScript reads a cost script, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanPath(name, "scripts")
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name, "presets")))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// cleanPath turns "prefabs/presets/x.yaml", "presets/x.yaml" and "x.yaml"
// into "presets/x.yaml".
func cleanPath(path, dir string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, dir+"/"); ok {
		s = after
	}
	return dir + "/" + s
}

func diskPath(clean string) string {
	return filepath.Join(DiskRoot, filepath.FromSlash(clean))
}

// PresetNames lists the embedded presets plus any extra ones on disk, sorted.
func PresetNames() ([]string, error) {
	embedded, err := fs.Glob(PresetsFS, "presets/*.yaml")
	if err != nil {
		return nil, err
	}
	onDisk, _ := filepath.Glob(filepath.Join(DiskRoot, "presets", "*.yaml"))

	var names []string
	for _, path := range append(embedded, onDisk...) {
		if name := PresetName(path); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// PresetName is the preset a watched file path belongs to, or "" when the
// path is not a preset.
func PresetName(path string) string {
	if !isSpecFile(path) {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

//go:embed levels/*.yaml
var LevelsFS embed.FS

// LoadLevelFile reads a level layout, preferring the on-disk copy.
func LoadLevelFile(name string) ([]byte, error) {
	clean := cleanPath(name, "levels")
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}
