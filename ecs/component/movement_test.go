package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMovementValidates(t *testing.T) {
	m := DefaultMovement()
	require.NoError(t, m.Validate(true))
	assert.True(t, m.Abilities.Grab)
	assert.True(t, m.Abilities.Dash)
}

func TestValidateDisablesBrokenAbilities(t *testing.T) {
	tests := []struct {
		name     string
		tweak    func(*Movement)
		hasView  bool
		disabled func(Abilities) []bool
	}{
		{
			name:     "no view",
			tweak:    func(*Movement) {},
			disabled: func(a Abilities) []bool { return []bool{a.Grab, a.DashToCamera} },
		},
		{
			name:     "zero dash duration",
			tweak:    func(m *Movement) { m.Dash.Duration = 0 },
			hasView:  true,
			disabled: func(a Abilities) []bool { return []bool{a.Dash} },
		},
		{
			name:     "zero jump height",
			tweak:    func(m *Movement) { m.Jump.JumpHeight = 0 },
			hasView:  true,
			disabled: func(a Abilities) []bool { return []bool{a.Jump} },
		},
		{
			name:     "inverted explosion range",
			tweak:    func(m *Movement) { m.Pound.MinExplosionForce = 2000 },
			hasView:  true,
			disabled: func(a Abilities) []bool { return []bool{a.GroundPound} },
		},
		{
			name:     "crouch taller than standing",
			tweak:    func(m *Movement) { m.Crouch.CrouchingHeight = 3 },
			hasView:  true,
			disabled: func(a Abilities) []bool { return []bool{a.Crouch, a.Slide} },
		},
		{
			name:     "zero lurch duration",
			tweak:    func(m *Movement) { m.Climb.LurchDuration = 0 },
			hasView:  true,
			disabled: func(a Abilities) []bool { return []bool{a.Lurch} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMovement()
			m.Abilities.DashToCamera = true
			tt.tweak(&m)

			err := m.Validate(tt.hasView)
			require.Error(t, err)
			for i, on := range tt.disabled(m.Abilities) {
				assert.False(t, on, "ability %d should be disabled", i)
			}
			assert.True(t, m.Abilities.Movement, "the controller stays usable")
		})
	}
}

func TestValidateRepairsCheckDistance(t *testing.T) {
	m := DefaultMovement()
	m.Ground.CheckDistance = 0
	require.Error(t, m.Validate(true))
	assert.InDelta(t, 0.1, m.Ground.CheckDistance, 1e-9)
}

func TestModePriority(t *testing.T) {
	order := []Mode{ModeGrounded, ModeSliding, ModeGroundPounding, ModeClimbing, ModeDashing, ModeFlying}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Priority(), order[i-1].Priority(), "%s over %s", order[i], order[i-1])
	}
	assert.Equal(t, ModeGrounded.Priority(), ModeAirborne.Priority())
	assert.True(t, ModeAirborne.Base())
	assert.False(t, ModeDashing.Base())
	assert.Equal(t, "ground_pounding", ModeGroundPounding.String())
}

func TestLocomotionFallDistance(t *testing.T) {
	l := NewLocomotion()
	l.FallStartHeight = 10
	l.StoredFallDistance = 2
	assert.InDelta(t, 7, l.FallDistance(5), 1e-9)
	assert.InDelta(t, 2, l.FallDistance(12), 1e-9, "rising never counts negative")

	l.DoubleJumpCount, l.AirDashCount, l.CoyoteSpent = 1, 1, true
	l.ResetAirState(5)
	assert.Zero(t, l.DoubleJumpCount)
	assert.Zero(t, l.AirDashCount)
	assert.False(t, l.CoyoteSpent)
	assert.Zero(t, l.FallDistance(5))
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("ground_pound")
	require.True(t, ok)
	assert.Equal(t, ActionGroundPound, a)

	_, ok = ParseAction("teleport")
	assert.False(t, ok)

	var in *Input
	assert.False(t, in.Pressed(ActionJump))
	assert.False(t, in.Moving())
}
