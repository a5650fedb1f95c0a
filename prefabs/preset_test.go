package prefabs

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

func TestLoadDefaultPreset(t *testing.T) {
	p, err := LoadPreset("default", true)
	require.NoError(t, err)
	require.NoError(t, p.Warnings)

	assert.Equal(t, "default", p.Name)
	assert.Equal(t, "default", p.Movement.Preset)
	assert.True(t, p.Movement.Abilities.StopFlyingOnGrounded)
	assert.InDelta(t, 0.5, p.Body.Radius, 1e-9)

	st := p.Stamina
	assert.InDelta(t, 100, st.Max, 1e-9)
	assert.InDelta(t, 20, st.Costs[component.StaminaDash], 1e-9)
	assert.InDelta(t, 15, st.Costs[component.StaminaClimb], 1e-9)
	for a := component.StaminaAction(0); a < component.StaminaActionCount; a++ {
		assert.True(t, st.Uses[a], "%s charged", a)
	}
	assert.Nil(t, st.Formula)

	def := component.DefaultMovement()
	assert.Equal(t, def.Walk, p.Movement.Walk, "keys left out keep the defaults")
	assert.Equal(t, def.Pound, p.Movement.Pound)
}

func TestLoadPresetWithoutView(t *testing.T) {
	p, err := LoadPreset("default", false)
	require.NoError(t, err)
	assert.Error(t, p.Warnings)
	assert.False(t, p.Movement.Abilities.Grab)
}

func TestLoadArcadePreset(t *testing.T) {
	p, err := LoadPreset("arcade", true)
	require.NoError(t, err)

	for a := component.StaminaAction(0); a < component.StaminaActionCount; a++ {
		assert.False(t, p.Stamina.Uses[a], "%s free", a)
	}
	assert.InDelta(t, 20, p.Stamina.Costs[component.StaminaDash], 1e-9, "costs overlay the defaults")
	assert.Equal(t, 2, p.Movement.Jump.MaxDoubleJumps)
	assert.Equal(t, 2, p.Movement.Dash.MaxAirDashes)
	assert.True(t, p.Movement.Abilities.AutoSprint)

	st := p.NewStamina()
	st.Current = 0
	assert.True(t, st.TryDash(0), "disabled costs never gate")
}

func TestLoadSidescrollerPreset(t *testing.T) {
	p, err := LoadPreset("sidescroller", true)
	require.NoError(t, err)

	assert.False(t, p.Movement.Abilities.RequireClimbableTag)
	assert.True(t, p.Movement.Abilities.OnlyForwardDash)
	assert.InDelta(t, 4, p.Movement.Walk.WalkSpeed, 1e-9)
	assert.InDelta(t, 0.4, p.Body.Radius, 1e-9)

	require.NotNil(t, p.Stamina.Formula)
	st := p.NewStamina()
	assert.InDelta(t, (5+8)*0.5, st.Cost(component.StaminaGrab, 4, 0.5), 1e-9)
	assert.InDelta(t, 20, st.Cost(component.StaminaDash, 0, 0), 1e-9, "actions the script skips use the built-in cost")
	assert.Equal(t, []string{"ShiftRight", "Q"}, p.Bindings["dash"])
	assert.Equal(t, []string{"Enter", "F"}, p.Bindings["grab"])
}

func TestParsePresetErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid yaml", doc: "walk: [1, 2"},
		{name: "unknown cost action", doc: "stamina:\n  costs:\n    teleport: 3\n"},
		{name: "unknown use action", doc: "stamina:\n  uses:\n    teleport: true\n"},
		{name: "negative cost", doc: "stamina:\n  costs:\n    dash: -1\n"},
		{name: "missing script", doc: "stamina:\n  cost_script: nope.tengo\n"},
		{name: "zero radius", doc: "body:\n  radius: 0\n"},
		{name: "unknown binding action", doc: "bindings:\n  teleport: [T]\n"},
		{name: "empty binding", doc: "bindings:\n  jump: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePreset("bad", []byte(tt.doc), true)
			assert.Error(t, err)
		})
	}

	_, err := LoadPreset("does_not_exist", true)
	assert.Error(t, err)
}

func TestParsePresetDisablesBrokenAbilities(t *testing.T) {
	p, err := ParsePreset("broken", []byte("dash:\n  duration: 0\n"), true)
	require.NoError(t, err, "bad tuning is a warning, not a load failure")
	assert.Error(t, p.Warnings)
	assert.False(t, p.Movement.Abilities.Dash)
	assert.True(t, p.Movement.Abilities.Jump)
}

func TestPresetDiskOverride(t *testing.T) {
	root := t.TempDir()
	old := DiskRoot
	DiskRoot = root
	t.Cleanup(func() { DiskRoot = old })

	require.NoError(t, os.MkdirAll(filepath.Join(root, "presets"), 0o755))
	doc := "name: default\nwalk:\n  walk_speed: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "presets", "default.yaml"), []byte(doc), 0o644))

	p, err := LoadPreset("default", true)
	require.NoError(t, err)
	assert.InDelta(t, 7, p.Movement.Walk.WalkSpeed, 1e-9)

	_, ok := ModTime("default.yaml")
	assert.True(t, ok)
	_, ok = ModTime("arcade.yaml")
	assert.False(t, ok, "only on-disk files have a mod time")
}

func TestPresetNames(t *testing.T) {
	root := t.TempDir()
	old := DiskRoot
	DiskRoot = root
	t.Cleanup(func() { DiskRoot = old })

	names, err := PresetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"arcade", "default", "sidescroller"}, names)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "presets"), 0o755))
	for _, f := range []string{"default.yaml", "floaty.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "presets", f), []byte("name: x\n"), 0o644))
	}
	names, err = PresetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"arcade", "default", "floaty", "sidescroller"}, names)
}

func TestPresetNewStaminaIsFull(t *testing.T) {
	p, err := LoadPreset("default", true)
	require.NoError(t, err)

	st := p.NewStamina()
	assert.InDelta(t, st.Max, st.Current, 1e-9)
	assert.True(t, math.IsInf(st.LastConsumedAt, -1), "regen is not delayed at spawn")

	st.Costs[component.StaminaDash] = 99
	assert.InDelta(t, 20, p.Stamina.Costs[component.StaminaDash], 1e-9, "pools are independent copies")
}

func TestPresetApply(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	old := component.NewStamina(50, 10, 1)
	old.Current = 30
	old.LastConsumedAt = 4
	loc := component.NewLocomotion()
	loc.Crouching = true
	loc.Fly.Ghost = true
	body := &component.Body{Position: common.V3(1, 2, 0), Velocity: common.V3(3, 0, 0), Radius: 1, Height: 2}

	require.NoError(t, ecs.Add(w, e, component.StaminaComponent.Kind(), old))
	require.NoError(t, ecs.Add(w, e, component.LocomotionComponent.Kind(), loc))
	require.NoError(t, ecs.Add(w, e, component.BodyComponent.Kind(), body))

	p, err := LoadPreset("sidescroller", true)
	require.NoError(t, err)
	require.NoError(t, p.Apply(w, e))

	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "sidescroller", m.Preset)

	st, ok := ecs.Get(w, e, component.StaminaComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 30, st.Current, 1e-9, "stamina level carries over")
	assert.InDelta(t, 100, st.Max, 1e-9)
	assert.Equal(t, 4.0, st.LastConsumedAt)
	assert.NotNil(t, st.Formula)

	assert.InDelta(t, 0.4, body.Radius, 1e-9)
	assert.InDelta(t, m.Crouch.CrouchingHeight, body.Height, 1e-9, "a crouching body stays crouched")
	assert.Equal(t, common.V3(1, 2, 0), body.Position)
	assert.Equal(t, common.V3(3, 0, 0), body.Velocity)
	assert.True(t, loc.Fly.Ghost)

	evts := w.Events().Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, ecs.EventPresetApplied, evts[0].Type)
	assert.Equal(t, "sidescroller", evts[0].Data)
}

func TestPresetApplyClampsStamina(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	old := component.NewStamina(500, 10, 1)
	require.NoError(t, ecs.Add(w, e, component.StaminaComponent.Kind(), old))

	p, err := LoadPreset("default", true)
	require.NoError(t, err)
	require.NoError(t, p.Apply(w, e))

	st, _ := ecs.Get(w, e, component.StaminaComponent.Kind())
	assert.InDelta(t, 100, st.Current, 1e-9)
}

func TestPresetApplyDeadEntity(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.True(t, ecs.DestroyEntity(w, e))

	p, err := LoadPreset("default", true)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Apply(w, e), component.ErrEntityNotAlive)

	var nilPreset *Preset
	assert.Error(t, nilPreset.Apply(w, e))
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in, dir, want string
	}{
		{"prefabs/presets/a.yaml", "presets", "presets/a.yaml"},
		{"presets/a.yaml", "presets", "presets/a.yaml"},
		{"a.yaml", "presets", "presets/a.yaml"},
		{"heavy_grab.tengo", "scripts", "scripts/heavy_grab.tengo"},
		{"", "presets", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanPath(tt.in, tt.dir), tt.in)
	}
	assert.Equal(t, "arcade", PresetName(filepath.Join("prefabs", "presets", "arcade.yaml")))
	assert.Empty(t, PresetName("scripts/heavy_grab.tengo"))
}

func TestLoadLevel(t *testing.T) {
	lvl, err := LoadLevel("playground")
	require.NoError(t, err)
	assert.Equal(t, "playground", lvl.Name)
	assert.NotEmpty(t, lvl.Blocks)
	assert.NotEmpty(t, lvl.Props)
	assert.InDelta(t, 2, lvl.Spawn.X, 1e-9)

	tagged := 0
	for _, b := range lvl.Blocks {
		if b.Tag == "Climbable" {
			tagged++
		}
	}
	assert.Equal(t, 1, tagged)

	_, err = LoadLevel("nowhere")
	assert.Error(t, err)
}
