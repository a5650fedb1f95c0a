package component

import "github.com/milk9111/moveset/common"

// Mode is the single active locomotion mode.
type Mode uint8

const (
	ModeGrounded Mode = iota
	ModeAirborne
	ModeSliding
	ModeDashing
	ModeClimbing
	ModeGroundPounding
	ModeFlying
)

var modeNames = [...]string{
	"grounded", "airborne", "sliding", "dashing", "climbing", "ground_pounding", "flying",
}

func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Priority orders modes for arbitration. A request for a mode only wins
// against a mode of lower priority.
func (m Mode) Priority() int {
	switch m {
	case ModeFlying:
		return 6
	case ModeDashing:
		return 5
	case ModeClimbing:
		return 4
	case ModeGroundPounding:
		return 3
	case ModeSliding:
		return 2
	default:
		return 1
	}
}

// Base reports whether m is plain grounded or airborne movement.
func (m Mode) Base() bool {
	return m == ModeGrounded || m == ModeAirborne
}

type DashState struct {
	Elapsed   float64
	Direction common.Vec3
}

type LurchPhase uint8

const (
	LurchIdle LurchPhase = iota
	LurchMoving
	LurchPausing
)

type ClimbState struct {
	// Surface is the raw entity handle of the climbed body.
	Surface    uint64
	SurfaceTop float64
	Normal     common.Vec3

	Vaulting     bool
	VaultElapsed float64
	VaultStart   common.Vec3
	VaultEnd     common.Vec3

	Lurch        LurchPhase
	LurchElapsed float64
	LurchStart   common.Vec3
	LurchEnd     common.Vec3
}

type FlyState struct {
	Ghost          bool
	SmoothVelocity common.Vec3
}

type PoundState struct {
	KeyInitiated bool
	Momentum     bool
}

// Locomotion is the controller state. Only the locomotion systems and the
// ground sensor mutate it, and only from the fixed tick.
type Locomotion struct {
	Mode Mode

	Grounded     bool
	WasGrounded  bool
	Falling      bool
	GroundNormal common.Vec3

	// Landing is set for the tick the body touched qualifying ground, with
	// the fall distance accumulated before the reset.
	Landing     bool
	LandingFall float64

	DoubleJumpCount int
	AirDashCount    int

	AirTime            float64
	StoredFallDistance float64
	FallStartHeight    float64
	DownwardTime       float64

	DashCooldown  float64
	PoundCooldown float64

	JumpBuffer    float64
	SinceGrounded float64
	CoyoteSpent   bool

	TouchingWall bool
	WallNormal   common.Vec3

	Crouching          bool
	HadHeadObstruction bool
	AutoStandTimer     float64

	Sprinting     bool
	AutoSprinting bool
	MoveTimer     float64
	StuckTimer    float64

	// ClimbLocked is set when stamina ran out mid-climb.
	ClimbLocked bool

	CurrentSpeed float64
	Facing       common.Vec3

	Dash  DashState
	Climb ClimbState
	Fly   FlyState
	Pound PoundState
}

// NewLocomotion returns an airborne controller facing forward. The first
// ground sample settles it. Coyote time is spent until it has stood on
// something.
func NewLocomotion() *Locomotion {
	return &Locomotion{
		Mode:         ModeAirborne,
		CoyoteSpent:  true,
		GroundNormal: common.Up,
		Facing:       common.Forward,
	}
}

// BaseMode is the default mode for the current support state.
func (l *Locomotion) BaseMode() Mode {
	if l.Grounded {
		return ModeGrounded
	}
	return ModeAirborne
}

// FallDistance is how far the body has dropped since it left the ground,
// plus any distance stored by intermediate contacts.
func (l *Locomotion) FallDistance(height float64) float64 {
	d := l.FallStartHeight - height
	if d < 0 {
		d = 0
	}
	return d + l.StoredFallDistance
}

// ResetAirState clears the counters that a landing refills.
func (l *Locomotion) ResetAirState(height float64) {
	l.AirTime = 0
	l.DoubleJumpCount = 0
	l.AirDashCount = 0
	l.FallStartHeight = height
	l.StoredFallDistance = 0
	l.DownwardTime = 0
	l.CoyoteSpent = false
	l.SinceGrounded = 0
}

var LocomotionComponent = NewComponent[Locomotion]()
