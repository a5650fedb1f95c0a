package prefabs

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// Preset is a decoded, validated movement configuration ready to apply.
type Preset struct {
	Name     string
	Movement component.Movement
	Stamina  component.Stamina
	Body     BodySpec
	// Bindings holds key overrides per action name; keys are resolved by
	// the input layer.
	Bindings map[string][]string
	// Warnings lists abilities disabled by validation.
	Warnings error
}

// LoadPreset reads presets/<name>.yaml over the defaults. hasView is passed
// to validation; abilities that need a camera are disabled without one.
func LoadPreset(name string, hasView bool) (*Preset, error) {
	data, err := Load(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load preset %s: %w", name, err)
	}
	return ParsePreset(name, data, hasView)
}

// ParsePreset decodes a preset document.
func ParsePreset(name string, data []byte, hasView bool) (*Preset, error) {
	spec := DefaultPresetSpec()
	spec.Name = name
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal preset %s: %w", name, err)
	}

	st, err := spec.Stamina.Stamina()
	if err != nil {
		return nil, fmt.Errorf("prefabs: preset %s: %w", name, err)
	}
	if spec.Stamina.CostScript != "" {
		src, err := LoadScript(spec.Stamina.CostScript)
		if err != nil {
			return nil, fmt.Errorf("prefabs: preset %s: load cost script: %w", name, err)
		}
		formula, err := CompileCost(spec.Stamina.CostScript, src)
		if err != nil {
			return nil, fmt.Errorf("prefabs: preset %s: %w", name, err)
		}
		st.Formula = formula
	}
	if spec.Body.Radius <= 0 {
		return nil, fmt.Errorf("prefabs: preset %s: body radius must be positive", name)
	}
	for action, keys := range spec.Bindings {
		if _, ok := component.ParseAction(action); !ok {
			return nil, fmt.Errorf("prefabs: preset %s: bindings: unknown action %q", name, action)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("prefabs: preset %s: bindings: %s has no keys", name, action)
		}
	}

	p := &Preset{
		Name:     spec.Name,
		Movement: spec.Movement(),
		Stamina:  *st,
		Body:     spec.Body,
		Bindings: spec.Bindings,
	}
	p.Warnings = p.Movement.Validate(hasView)
	if p.Warnings != nil {
		logger.Warn("preset abilities disabled", zap.String("preset", p.Name), zap.Error(p.Warnings))
	}
	return p, nil
}

// NewStamina returns a fresh full pool configured from the preset.
func (p *Preset) NewStamina() *component.Stamina {
	st := p.Stamina
	st.Current = st.Max
	st.LastConsumedAt = math.Inf(-1)
	return &st
}

// Apply swaps the preset onto e between ticks. The stamina pool keeps its
// level, clamped to the new maximum, and the body keeps its position and
// velocity.
func (p *Preset) Apply(w *ecs.World, e ecs.Entity) error {
	if p == nil {
		return fmt.Errorf("prefabs: apply: nil preset")
	}
	if !ecs.IsAlive(w, e) {
		return fmt.Errorf("prefabs: apply %s: %w", p.Name, component.ErrEntityNotAlive)
	}

	m := p.Movement
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), &m); err != nil {
		return fmt.Errorf("prefabs: apply %s: movement: %w", p.Name, err)
	}

	st := p.NewStamina()
	if old, ok := ecs.Get(w, e, component.StaminaComponent.Kind()); ok {
		st.Current = math.Min(old.Current, st.Max)
		st.LastConsumedAt = old.LastConsumedAt
	}
	if err := ecs.Add(w, e, component.StaminaComponent.Kind(), st); err != nil {
		return fmt.Errorf("prefabs: apply %s: stamina: %w", p.Name, err)
	}

	if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		body.Radius = p.Body.Radius
		body.Mass = p.Body.Mass
		body.Height = m.Crouch.StandingHeight
		if loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
			if loc.Crouching || loc.Mode == component.ModeSliding {
				body.Height = m.Crouch.CrouchingHeight
			}
			loc.Fly.Ghost = m.Abilities.GhostFly && loc.Fly.Ghost
		}
	}

	w.Events().Push(ecs.Event{Type: ecs.EventPresetApplied, Entity: e, Data: p.Name})
	logger.Info("preset applied", zap.String("preset", p.Name), zap.Stringer("entity", e))
	return nil
}
