package component

// StaminaAction identifies an action with a stamina cost.
type StaminaAction uint8

const (
	StaminaSprint StaminaAction = iota
	StaminaJump
	StaminaDoubleJump
	StaminaWallJump
	StaminaDash
	StaminaSlide
	StaminaClimb
	StaminaGrab
	StaminaActionCount
)

var staminaActionNames = [StaminaActionCount]string{
	"sprint", "jump", "double_jump", "wall_jump", "dash", "slide", "climb", "grab",
}

func (a StaminaAction) String() string {
	if a >= StaminaActionCount {
		return "unknown"
	}
	return staminaActionNames[a]
}

// Continuous reports whether the action is charged per second.
func (a StaminaAction) Continuous() bool {
	return a == StaminaSprint || a == StaminaClimb || a == StaminaGrab
}

// StaminaNotice is a pool notification for UI and audio collaborators.
type StaminaNotice uint8

const (
	StaminaDepleted StaminaNotice = iota + 1
	StaminaRegenStarted
	StaminaFullyRegenerated
)

// CostFormula overrides the built-in cost of an action. ok=false falls back
// to the built-in formula.
type CostFormula interface {
	Cost(action StaminaAction, base, weight, dt float64) (cost float64, ok bool)
}

// Stamina is the resource pool gating ability activation.
//
// Current only decreases through Consume, which refuses (without mutating)
// when the amount exceeds what is left. Regen only runs once RegenDelay has
// elapsed since the last successful consume and never passes Max.
type Stamina struct {
	Current    float64
	Max        float64
	RegenRate  float64
	RegenDelay float64
	CanRegen   bool

	// LastConsumedAt is the simulation time of the last successful consume.
	LastConsumedAt float64

	// Costs holds the flat cost of one-shot actions and the per-second cost
	// of continuous ones. The grab entry is the base cost.
	Costs [StaminaActionCount]float64
	// Uses toggles whether an action is charged at all.
	Uses                 [StaminaActionCount]bool
	GrabWeightMultiplier float64

	Formula CostFormula

	regenning bool
	notices   []StaminaNotice
}

// NewStamina returns a full pool with every action charged.
func NewStamina(max, regenRate, regenDelay float64) *Stamina {
	s := &Stamina{
		Current:    max,
		Max:        max,
		RegenRate:  regenRate,
		RegenDelay: regenDelay,
		CanRegen:   true,
	}
	for i := range s.Uses {
		s.Uses[i] = true
	}
	return s
}

// Consume subtracts amount if available and stamps the consume time.
func (s *Stamina) Consume(now, amount float64) bool {
	if s == nil || amount < 0 || amount > s.Current {
		return false
	}
	s.Current -= amount
	s.LastConsumedAt = now
	s.regenning = false
	if s.Current <= 0 {
		s.Current = 0
		s.notices = append(s.notices, StaminaDepleted)
	}
	return true
}

// CanAfford reports whether amount could be consumed right now.
func (s *Stamina) CanAfford(amount float64) bool {
	return s != nil && amount >= 0 && amount <= s.Current
}

// Regen advances regeneration by dt seconds at time now.
func (s *Stamina) Regen(now, dt float64) {
	if s == nil || !s.CanRegen || dt <= 0 || s.Current >= s.Max {
		return
	}
	if now-s.LastConsumedAt < s.RegenDelay {
		return
	}
	if !s.regenning {
		s.regenning = true
		s.notices = append(s.notices, StaminaRegenStarted)
	}
	s.Current += s.RegenRate * dt
	if s.Current >= s.Max {
		s.Current = s.Max
		s.regenning = false
		s.notices = append(s.notices, StaminaFullyRegenerated)
	}
}

// Cost returns what action would be charged. weight only applies to grab and
// dt only to continuous actions.
func (s *Stamina) Cost(action StaminaAction, weight, dt float64) float64 {
	if s == nil || action >= StaminaActionCount {
		return 0
	}
	base := s.Costs[action]
	if s.Formula != nil {
		if c, ok := s.Formula.Cost(action, base, weight, dt); ok {
			if c < 0 {
				return 0
			}
			return c
		}
	}
	switch action {
	case StaminaGrab:
		return (base + weight*s.GrabWeightMultiplier) * dt
	case StaminaSprint, StaminaClimb:
		return base * dt
	default:
		return base
	}
}

// Try charges action if its toggle is on. A disabled toggle always succeeds.
func (s *Stamina) Try(now float64, action StaminaAction, weight, dt float64) bool {
	if s == nil {
		return true
	}
	if action >= StaminaActionCount || !s.Uses[action] {
		return true
	}
	return s.Consume(now, s.Cost(action, weight, dt))
}

func (s *Stamina) TryJump(now float64) bool { return s.Try(now, StaminaJump, 0, 0) }

func (s *Stamina) TryDoubleJump(now float64) bool { return s.Try(now, StaminaDoubleJump, 0, 0) }

func (s *Stamina) TryWallJump(now float64) bool { return s.Try(now, StaminaWallJump, 0, 0) }

func (s *Stamina) TryDash(now float64) bool { return s.Try(now, StaminaDash, 0, 0) }

func (s *Stamina) TrySlide(now float64) bool { return s.Try(now, StaminaSlide, 0, 0) }

func (s *Stamina) TrySprint(now, dt float64) bool { return s.Try(now, StaminaSprint, 0, dt) }

func (s *Stamina) TryClimb(now, dt float64) bool { return s.Try(now, StaminaClimb, 0, dt) }

func (s *Stamina) TryGrab(now, weight, dt float64) bool { return s.Try(now, StaminaGrab, weight, dt) }

// TakeNotices returns and clears pending notifications.
func (s *Stamina) TakeNotices() []StaminaNotice {
	if s == nil || len(s.notices) == 0 {
		return nil
	}
	out := s.notices
	s.notices = nil
	return out
}

var StaminaComponent = NewComponent[Stamina]()
