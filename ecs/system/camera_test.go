package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

func TestCameraScreenMapping(t *testing.T) {
	cam := &Camera{X: 10, Y: 5, Zoom: 40, Width: 800, Height: 600}

	x, y := cam.ToScreen(10, 5)
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	x, y = cam.ToScreen(11, 6)
	assert.InDelta(t, 440, x, 1e-9)
	assert.InDelta(t, 260, y, 1e-9, "world up is screen up")

	wx, wy := cam.ToWorld(x, y)
	assert.InDelta(t, 11, wx, 1e-9)
	assert.InDelta(t, 6, wy, 1e-9)
}

func TestCameraFollowsPlayer(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Position: common.V3(4, 0, 0), Height: 2}))

	cam := &Camera{Zoom: 1}
	cs := NewCameraSystem(cam, 5)
	sched := ecs.NewScheduler(cs)

	sched.Step(w, 0.1)
	assert.Greater(t, cam.X, 0.0)
	assert.Less(t, cam.X, 4.0, "smoothed, not snapped")

	cs.Snap(w)
	assert.InDelta(t, 4, cam.X, 1e-9)
	assert.InDelta(t, 1, cam.Y, 1e-9, "centred on the body")
	assert.InDelta(t, 5, cs.Stiffness, 1e-9)
}

func TestCameraWithoutPlayer(t *testing.T) {
	cam := &Camera{X: 3, Y: 3}
	NewCameraSystem(cam, 0).Update(ecs.NewWorld())
	assert.Equal(t, 3.0, cam.X)
}
