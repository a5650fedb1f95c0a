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

// NewBlock adds static level geometry spanning min to max.
func NewBlock(w *ecs.World, min, max common.Vec3, tag string) (ecs.Entity, error) {
	if max.X <= min.X || max.Y <= min.Y {
		return 0, fmt.Errorf("block: empty extent %v..%v", min, max)
	}
	e := ecs.CreateEntity(w)
	body := &component.Body{
		Position:        common.V3((min.X+max.X)/2, min.Y, (min.Z+max.Z)/2),
		Radius:          (max.X - min.X) / 2,
		Height:          max.Y - min.Y,
		ColliderEnabled: true,
		Layer:           component.LayerGround,
		Tag:             tag,
	}
	if err := ecs.Add(w, e, component.StaticTagComponent.Kind(), &component.StaticTag{}); err != nil {
		return 0, fmt.Errorf("block: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("block: add body: %w", err)
	}
	return e, nil
}

// NewProp adds a dynamic box that can be grabbed and pushed by pounds.
func NewProp(w *ecs.World, pos common.Vec3, size, mass float64) (ecs.Entity, error) {
	if size <= 0 {
		return 0, fmt.Errorf("prop: size must be positive")
	}
	if mass <= 0 {
		mass = 1
	}
	e := ecs.CreateEntity(w)
	body := &component.Body{
		Position:        pos,
		Radius:          size / 2,
		Height:          size,
		Mass:            mass,
		GravityEnabled:  true,
		ColliderEnabled: true,
		Layer:           component.LayerProp,
		Tag:             "Prop",
	}
	if err := ecs.Add(w, e, component.PropTagComponent.Kind(), &component.PropTag{}); err != nil {
		return 0, fmt.Errorf("prop: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("prop: add body: %w", err)
	}
	return e, nil
}

// LoadLevelToWorld creates the blocks and props of a level layout and
// returns the spawn point.
func LoadLevelToWorld(w *ecs.World, lvl *prefabs.LevelSpec) (common.Vec3, error) {
	if lvl == nil {
		return common.Zero, fmt.Errorf("level: nil layout")
	}
	for i, b := range lvl.Blocks {
		min := common.V3(b.X, b.Y, 0)
		max := common.V3(b.X+b.W, b.Y+b.H, 0)
		if _, err := NewBlock(w, min, max, b.Tag); err != nil {
			return common.Zero, fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
	}
	for i, p := range lvl.Props {
		if _, err := NewProp(w, common.V3(p.X, p.Y, 0), p.Size, p.Mass); err != nil {
			return common.Zero, fmt.Errorf("level %s: prop %d: %w", lvl.Name, i, err)
		}
	}
	logger.Info("level loaded", zap.String("level", lvl.Name), zap.Int("blocks", len(lvl.Blocks)), zap.Int("props", len(lvl.Props)))
	return common.V3(lvl.Spawn.X, lvl.Spawn.Y, 0), nil
}
