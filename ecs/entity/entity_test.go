package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/prefabs"
)

func loadPreset(t *testing.T, name string, withView bool) *prefabs.Preset {
	t.Helper()
	p, err := prefabs.LoadPreset(name, withView)
	require.NoError(t, err)
	return p
}

func TestNewPlayer(t *testing.T) {
	w := ecs.NewWorld()
	preset := loadPreset(t, "sidescroller", true)

	e, err := NewPlayer(w, preset, common.V3(2, 1, 0), true)
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.PlayerTagComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.InputComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.ContactsComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.GrabComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.ExternalPullComponent.Kind()))

	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, common.V3(2, 1, 0), body.Position)
	assert.InDelta(t, 0.4, body.Radius, 1e-9)
	assert.InDelta(t, preset.Movement.Crouch.StandingHeight, body.Height, 1e-9)
	assert.Equal(t, component.LayerPlayer, body.Layer)
	assert.True(t, body.GravityEnabled)
	assert.True(t, body.ColliderEnabled)

	loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.ModeAirborne, loc.Mode)
	assert.InDelta(t, 1, loc.FallStartHeight, 1e-9)

	st, ok := ecs.Get(w, e, component.StaminaComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, st.Max, st.Current, 1e-9)

	view, ok := ecs.Get(w, e, component.ViewComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, body.Top(), view.Position)

	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	require.True(t, ok)
	m.Walk.WalkSpeed = 99
	assert.InDelta(t, 4, preset.Movement.Walk.WalkSpeed, 1e-9, "the player owns a copy of the tuning")
}

func TestNewPlayerWithoutView(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w, loadPreset(t, "default", true), common.Zero, false)
	require.NoError(t, err)

	assert.False(t, ecs.Has(w, e, component.ViewComponent.Kind()))
	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	assert.False(t, m.Abilities.Grab, "grab needs a view")

	_, err = NewPlayer(w, nil, common.Zero, false)
	assert.Error(t, err)
}

func TestNewBlock(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewBlock(w, common.V3(-1, 0, 0), common.V3(3, 2, 0), "Climbable")
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.StaticTagComponent.Kind()))
	body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
	assert.Equal(t, common.V3(1, 0, 0), body.Position)
	assert.InDelta(t, 2, body.Radius, 1e-9)
	assert.InDelta(t, 2, body.Height, 1e-9)
	assert.Equal(t, "Climbable", body.Tag)
	assert.Equal(t, component.LayerGround, body.Layer)

	_, err = NewBlock(w, common.V3(0, 0, 0), common.V3(0, 1, 0), "")
	assert.Error(t, err, "zero width")
	_, err = NewBlock(w, common.V3(0, 1, 0), common.V3(1, 0, 0), "")
	assert.Error(t, err, "inverted height")
}

func TestNewProp(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewProp(w, common.V3(4, 0, 0), 0.5, 0)
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.PropTagComponent.Kind()))
	body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
	assert.InDelta(t, 0.25, body.Radius, 1e-9)
	assert.InDelta(t, 1, body.Mass, 1e-9, "non-positive mass defaults to one")
	assert.Equal(t, component.LayerProp, body.Layer)

	_, err = NewProp(w, common.Zero, 0, 1)
	assert.Error(t, err)
}

func TestLoadLevelToWorld(t *testing.T) {
	w := ecs.NewWorld()
	lvl, err := prefabs.LoadLevel("playground")
	require.NoError(t, err)

	spawn, err := LoadLevelToWorld(w, lvl)
	require.NoError(t, err)
	assert.Equal(t, common.V3(lvl.Spawn.X, lvl.Spawn.Y, 0), spawn)

	assert.Len(t, w.Query(component.StaticTagComponent.Kind()), len(lvl.Blocks))
	assert.Len(t, w.Query(component.PropTagComponent.Kind()), len(lvl.Props))

	bad := &prefabs.LevelSpec{Name: "bad", Blocks: []prefabs.BlockSpec{{W: 0, H: 1}}}
	_, err = LoadLevelToWorld(ecs.NewWorld(), bad)
	assert.Error(t, err)

	_, err = LoadLevelToWorld(w, nil)
	assert.Error(t, err)
}
