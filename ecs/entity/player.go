package entity

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
	"github.com/milk9111/moveset/prefabs"
)

// NewPlayer builds a controller standing at feet position pos, configured by
// preset. withView attaches a camera pose for camera-relative movement.
func NewPlayer(w *ecs.World, preset *prefabs.Preset, pos common.Vec3, withView bool) (ecs.Entity, error) {
	if preset == nil {
		return 0, fmt.Errorf("player: nil preset")
	}
	e := ecs.CreateEntity(w)

	m := preset.Movement
	if err := m.Validate(withView); err != nil {
		logger.Warn("player abilities disabled", zap.Stringer("entity", e), zap.String("preset", preset.Name), zap.Error(err))
	}

	loc := component.NewLocomotion()
	loc.FallStartHeight = pos.Y
	loc.Fly.Ghost = m.Abilities.GhostFly

	body := &component.Body{
		Position:        pos,
		Radius:          preset.Body.Radius,
		Height:          m.Crouch.StandingHeight,
		Mass:            preset.Body.Mass,
		GravityEnabled:  true,
		ColliderEnabled: true,
		Layer:           component.LayerPlayer,
		Tag:             "Player",
	}

	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("player: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), &m); err != nil {
		return 0, fmt.Errorf("player: add movement: %w", err)
	}
	if err := ecs.Add(w, e, component.LocomotionComponent.Kind(), loc); err != nil {
		return 0, fmt.Errorf("player: add locomotion: %w", err)
	}
	if err := ecs.Add(w, e, component.StaminaComponent.Kind(), preset.NewStamina()); err != nil {
		return 0, fmt.Errorf("player: add stamina: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.ContactsComponent.Kind(), &component.Contacts{}); err != nil {
		return 0, fmt.Errorf("player: add contacts: %w", err)
	}
	if err := ecs.Add(w, e, component.GrabComponent.Kind(), &component.Grab{}); err != nil {
		return 0, fmt.Errorf("player: add grab: %w", err)
	}
	if err := ecs.Add(w, e, component.ExternalPullComponent.Kind(), &component.ExternalPull{}); err != nil {
		return 0, fmt.Errorf("player: add external pull: %w", err)
	}
	if withView {
		view := &component.View{Position: body.Top(), Forward: common.Forward}
		if err := ecs.Add(w, e, component.ViewComponent.Kind(), view); err != nil {
			return 0, fmt.Errorf("player: add view: %w", err)
		}
	}

	logger.Info("player spawned", zap.Stringer("entity", e), zap.String("preset", preset.Name))
	return e, nil
}
