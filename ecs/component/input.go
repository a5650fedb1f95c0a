package component

// Action is a logical input action. Physical bindings live in the input system.
type Action uint8

const (
	ActionJump Action = iota
	ActionSprint
	ActionCrouch
	ActionDash
	ActionLurch
	ActionGroundPound
	ActionGrab
	ActionToggleFly
	ActionToggleGhost
	ActionCount
)

var actionNames = [ActionCount]string{
	"jump", "sprint", "crouch", "dash", "lurch", "ground_pound", "grab", "toggle_fly", "toggle_ghost",
}

func (a Action) String() string {
	if a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a config name back to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// ActionState holds the edge and level flags of one action for a tick.
type ActionState struct {
	Pressed  bool
	Held     bool
	Released bool
}

// Input stores the per-tick command snapshot for an entity.
type Input struct {
	// MoveX is strafe (right positive), MoveZ is forward. The pair has
	// magnitude at most one.
	MoveX   float64
	MoveZ   float64
	Actions [ActionCount]ActionState
}

func (in *Input) Pressed(a Action) bool {
	return in != nil && a < ActionCount && in.Actions[a].Pressed
}

func (in *Input) Held(a Action) bool {
	return in != nil && a < ActionCount && in.Actions[a].Held
}

func (in *Input) Released(a Action) bool {
	return in != nil && a < ActionCount && in.Actions[a].Released
}

// Moving reports whether the movement axes carry meaningful input.
func (in *Input) Moving() bool {
	return in != nil && in.MoveX*in.MoveX+in.MoveZ*in.MoveZ > 0.01
}

// Forward reports whether the forward axis is pushed.
func (in *Input) Forward() bool {
	return in != nil && in.MoveZ > 0
}

var InputComponent = NewComponent[Input]()
