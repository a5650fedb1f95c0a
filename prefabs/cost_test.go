package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/moveset/ecs/component"
)

func TestCostScript(t *testing.T) {
	src, err := LoadScript("heavy_grab.tengo")
	require.NoError(t, err)

	cs, err := CompileCost("heavy_grab.tengo", src)
	require.NoError(t, err)
	assert.Equal(t, "heavy_grab.tengo", cs.Name())

	got, ok := cs.Cost(component.StaminaGrab, 5, 4, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 6.5, got, 1e-9)

	_, ok = cs.Cost(component.StaminaDash, 20, 0, 0)
	assert.False(t, ok, "undefined cost falls back")
}

func TestCostScriptResults(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   float64
		wantOK bool
	}{
		{name: "int", src: `cost := 3`, want: 3, wantOK: true},
		{name: "float", src: `cost := base * 2.5`, want: 10, wantOK: true},
		{name: "uses action", src: `cost := action == "dash" ? 1 : 2`, want: 1, wantOK: true},
		{name: "string", src: `cost := "free"`},
		{name: "never assigned", src: `x := 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := CompileCost(tt.name, []byte(tt.src))
			require.NoError(t, err)
			got, ok := cs.Cost(component.StaminaDash, 4, 0, 0)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCompileCostErrors(t *testing.T) {
	_, err := CompileCost("syntax", []byte(`cost := (`))
	assert.Error(t, err)

	_, err = CompileCost("runtime", []byte("f := 1\ncost := f()"))
	assert.Error(t, err, "runtime errors surface at load")
}

func TestNilCostScript(t *testing.T) {
	var cs *CostScript
	_, ok := cs.Cost(component.StaminaGrab, 1, 1, 1)
	assert.False(t, ok)
	assert.Empty(t, cs.Name())
}
