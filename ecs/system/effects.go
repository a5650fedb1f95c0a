package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/logger"
)

// EffectListener receives fire-and-forget notifications. Return values are
// not consulted and a listener cannot stall the tick.
type EffectListener func(ecs.Event)

// EffectsSystem drains the world event queue once per tick and hands each
// event to the listeners registered for its type. It should run last.
type EffectsSystem struct {
	listeners map[ecs.EventType][]EffectListener
	all       []EffectListener
}

func NewEffectsSystem() *EffectsSystem {
	return &EffectsSystem{listeners: make(map[ecs.EventType][]EffectListener)}
}

// On registers fn for one event type.
func (s *EffectsSystem) On(typ ecs.EventType, fn EffectListener) {
	if s == nil || fn == nil {
		return
	}
	s.listeners[typ] = append(s.listeners[typ], fn)
}

// OnAny registers fn for every event.
func (s *EffectsSystem) OnAny(fn EffectListener) {
	if s == nil || fn == nil {
		return
	}
	s.all = append(s.all, fn)
}

func (s *EffectsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		if ce := logger.Log.Check(zap.DebugLevel, "effect"); ce != nil {
			ce.Write(zap.String("type", string(evt.Type)), zap.Stringer("entity", evt.Entity), zap.Float64("value", evt.Value))
		}
		for _, fn := range s.listeners[evt.Type] {
			fn(evt)
		}
		for _, fn := range s.all {
			fn(evt)
		}
	}
}
