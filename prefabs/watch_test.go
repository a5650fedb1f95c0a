package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsPresetEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	path := filepath.Join(dir, "arcade.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: arcade\n"), 0o644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, path, got.Path)
		assert.Equal(t, ChangePreset, got.Kind)
		assert.Equal(t, "arcade", got.Preset)
		assert.True(t, got.Affects("arcade"))
		assert.False(t, got.Affects("default"))
	case <-time.After(2 * time.Second):
		t.Fatal("no event for preset edit")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path   string
		kind   ChangeKind
		preset string
		ok     bool
	}{
		{path: "prefabs/presets/default.yaml", kind: ChangePreset, preset: "default", ok: true},
		{path: "presets/floaty.YML", kind: ChangePreset, preset: "floaty", ok: true},
		{path: "prefabs/scripts/heavy_grab.tengo", kind: ChangeScript, ok: true},
		{path: "prefabs/presets/.default.yaml.swp"},
		{path: "README.md"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := classify(tt.path)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.preset, got.Preset)
		})
	}

	script := Change{Kind: ChangeScript}
	assert.True(t, script.Affects("anything"), "scripts may back any preset")
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
