package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// StaminaSystem regenerates every pool and forwards pool notices as events.
// It runs after the locomotion systems so notices from this tick's consumes
// go out in the same tick.
type StaminaSystem struct{}

func NewStaminaSystem() *StaminaSystem {
	return &StaminaSystem{}
}

func (s *StaminaSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now, dt := w.Now(), w.Delta()
	ecs.ForEach(w, component.StaminaComponent.Kind(), func(e ecs.Entity, st *component.Stamina) {
		st.Regen(now, dt)
		for _, n := range st.TakeNotices() {
			var typ ecs.EventType
			switch n {
			case component.StaminaDepleted:
				typ = ecs.EventStaminaDepleted
			case component.StaminaRegenStarted:
				typ = ecs.EventStaminaRegen
			case component.StaminaFullyRegenerated:
				typ = ecs.EventStaminaFull
			default:
				continue
			}
			w.Events().Push(ecs.Event{Type: typ, Entity: e, Value: st.Current})
			logger.Debug("stamina", zap.Stringer("entity", e), zap.String("event", string(typ)), zap.Float64("current", st.Current))
		}
	})
}
