package component

import (
	"errors"
	"fmt"
)

// Abilities toggles each ability branch. A disabled ability never claims a tick.
type Abilities struct {
	Movement             bool
	OmniMovement         bool
	HeadObstructionCheck bool
	Crouch               bool
	CrouchIsToggle       bool
	Sprint               bool
	SprintIsToggle       bool
	Slide                bool

	Jump       bool
	DoubleJump bool
	WallJump   bool
	WallSlide  bool

	Climb               bool
	Lurch               bool
	RequireClimbableTag bool

	Dash            bool
	DashToCamera    bool
	OnlyForwardDash bool
	AirDash         bool

	GroundPound   bool
	MomentumPound bool

	ResetDoubleJumpOnWallJump bool
	ResetDashOnWallJump       bool
	DashResetsDoubleJump      bool
	DoubleJumpResetsDash      bool

	Fly                  bool
	StopFlyingOnGrounded bool
	GhostFly             bool
	ToggleGhost          bool

	Grab         bool
	GrabIsToggle bool

	AutoRun    bool
	AutoJump   bool
	AutoSprint bool
	StepClimb  bool
	Unstick    bool
}

type GroundTuning struct {
	Layers            LayerMask
	CheckDistance     float64
	ProbeRadiusFactor float64
	// ProbeOffset is the lateral offset of the fallback probes as a
	// fraction of the body radius.
	ProbeOffset      float64
	MinAirTime       float64
	Gravity          float64
	GroundedVelocity float64
	TerminalVelocity float64
}

type WalkTuning struct {
	Acceleration     float64
	Deceleration     float64
	WalkSpeed        float64
	SprintMultiplier float64
	AirControlFactor float64
	RotationSpeed    float64
	AutoSprintDelay  float64
}

type SlopeTuning struct {
	MaxSlopeAngle        float64
	SlideDownSpeed       float64
	SlideForceMultiplier float64
}

type CrouchTuning struct {
	StandingHeight        float64
	CrouchingHeight       float64
	CrouchSpeedMultiplier float64
	CrouchDownForce       float64
	AutoStandDelay        float64
	SlideSpeed            float64
	RequiredSpeedFactor   float64
	HeadClearance         float64
	HeadLayers            LayerMask
}

type JumpTuning struct {
	JumpHeight                  float64
	DoubleJumpHeight            float64
	MaxDoubleJumps              int
	JumpBufferTime              float64
	CoyoteTime                  float64
	WallSlideSpeed              float64
	WallJumpForce               float64
	WallJumpDirectionMultiplier float64
}

type ClimbTuning struct {
	RaycastDistance        float64
	UpClimbSpeed           float64
	HorizontalAndDownSpeed float64
	ClimbableTag           string
	VerticalThreshold      float64
	TopEdgeTolerance       float64
	EdgeVaultHeight        float64
	VaultForward           float64
	VaultDuration          float64
	LurchDistance          float64
	LurchDuration          float64
	PauseBetweenLurches    float64
}

type DashTuning struct {
	Speed        float64
	Duration     float64
	Cooldown     float64
	MaxAirDashes int
}

type PoundTuning struct {
	Cooldown                  float64
	Speed                     float64
	MomentumSpeedMultiplier   float64
	MomentumSpeedThreshold    float64
	MomentumDurationThreshold float64
	MinExplosionForce         float64
	MaxExplosionForce         float64
	ExplosionForceMultiplier  float64
	ExplosionRadius           float64
	ExplosionLayers           LayerMask
}

type FlyTuning struct {
	BaseSpeed        float64
	SprintMultiplier float64
	SmoothingTime    float64
}

type GrabTuning struct {
	Distance      float64
	HoldDistance  float64
	Force         float64
	MaxHoldOffset float64
	Layers        LayerMask
}

type StepTuning struct {
	StepHeight        float64
	StepSmooth        float64
	LowerRayLength    float64
	UpperRayLength    float64
	MinStepSlopeAngle float64
	MaxStepSlopeAngle float64
	Layers            LayerMask
}

type UnstickTuning struct {
	StuckThreshold float64
	MinMoveSpeed   float64
	DownImpulse    float64
	ForwardImpulse float64
}

// Movement is the full tunable set of a controller. It is swapped as a whole
// when a preset is applied.
type Movement struct {
	Preset    string
	Abilities Abilities
	Ground    GroundTuning
	Walk      WalkTuning
	Slope     SlopeTuning
	Crouch    CrouchTuning
	Jump      JumpTuning
	Climb     ClimbTuning
	Dash      DashTuning
	Pound     PoundTuning
	Fly       FlyTuning
	Grab      GrabTuning
	Step      StepTuning
	Unstick   UnstickTuning
}

// DefaultMovement mirrors the stock preset.
func DefaultMovement() Movement {
	return Movement{
		Preset: "default",
		Abilities: Abilities{
			Movement: true, OmniMovement: true, HeadObstructionCheck: true,
			Crouch: true, Sprint: true, Slide: true,
			Jump: true, DoubleJump: true, WallJump: true, WallSlide: true,
			Climb: true, Lurch: true, RequireClimbableTag: true,
			Dash: true, AirDash: true,
			GroundPound: true, MomentumPound: true,
			ResetDoubleJumpOnWallJump: true, ResetDashOnWallJump: true,
			Fly: true, GhostFly: true, ToggleGhost: true,
			Grab: true, GrabIsToggle: true,
			StepClimb: true, Unstick: true,
		},
		Ground: GroundTuning{
			Layers: LayerGround, CheckDistance: 0.1, ProbeRadiusFactor: 0.1, ProbeOffset: 0.3,
			MinAirTime: 0.2, Gravity: 9.81, GroundedVelocity: -0.5, TerminalVelocity: 60,
		},
		Walk: WalkTuning{
			Acceleration: 10, Deceleration: 15, WalkSpeed: 2, SprintMultiplier: 1.8,
			AirControlFactor: 0.5, RotationSpeed: 10, AutoSprintDelay: 5,
		},
		Slope: SlopeTuning{MaxSlopeAngle: 60, SlideDownSpeed: 5, SlideForceMultiplier: 1},
		Crouch: CrouchTuning{
			StandingHeight: 2, CrouchingHeight: 1, CrouchSpeedMultiplier: 0.5, CrouchDownForce: 10,
			AutoStandDelay: 0.5, SlideSpeed: 6, RequiredSpeedFactor: 0.9, HeadClearance: 1,
			HeadLayers: LayerGround,
		},
		Jump: JumpTuning{
			JumpHeight: 1.2, DoubleJumpHeight: 1.2, MaxDoubleJumps: 1, JumpBufferTime: 0.15,
			CoyoteTime: 0.1, WallSlideSpeed: 2, WallJumpForce: 5, WallJumpDirectionMultiplier: 1,
		},
		Climb: ClimbTuning{
			RaycastDistance: 2, UpClimbSpeed: 3, HorizontalAndDownSpeed: 2, ClimbableTag: "Climbable",
			VerticalThreshold: 80, TopEdgeTolerance: 0.1, EdgeVaultHeight: 1, VaultForward: 0.5,
			VaultDuration: 0.4, LurchDistance: 2, LurchDuration: 0.3, PauseBetweenLurches: 0.2,
		},
		Dash: DashTuning{Speed: 10, Duration: 0.2, Cooldown: 1, MaxAirDashes: 1},
		Pound: PoundTuning{
			Cooldown: 1, Speed: 50,
			MomentumSpeedMultiplier: 1.2, MomentumSpeedThreshold: 10, MomentumDurationThreshold: 0.2,
			MinExplosionForce: 300, MaxExplosionForce: 1500, ExplosionForceMultiplier: 50,
			ExplosionRadius: 5, ExplosionLayers: LayerProp,
		},
		Fly:  FlyTuning{BaseSpeed: 2, SprintMultiplier: 2, SmoothingTime: 0.1},
		Grab: GrabTuning{Distance: 3, HoldDistance: 2, Force: 10, MaxHoldOffset: 2, Layers: LayerProp},
		Step: StepTuning{
			StepHeight: 0.3, StepSmooth: 2, LowerRayLength: 0.1, UpperRayLength: 0.2,
			MinStepSlopeAngle: 75, MaxStepSlopeAngle: 90, Layers: LayerGround,
		},
		Unstick: UnstickTuning{StuckThreshold: 0.75, MinMoveSpeed: 0.1, DownImpulse: 3, ForwardImpulse: 2},
	}
}

// Validate checks the tuning and disables every ability whose parameters
// cannot work. hasView reports whether a camera pose is available. The
// returned error lists what was disabled; the controller stays usable.
func (m *Movement) Validate(hasView bool) error {
	if m == nil {
		return nil
	}
	var errs []error
	disable := func(flag *bool, name, reason string) {
		if *flag {
			*flag = false
			errs = append(errs, fmt.Errorf("%s disabled: %s", name, reason))
		}
	}

	a := &m.Abilities
	if m.Walk.WalkSpeed < 0 || m.Walk.Acceleration <= 0 || m.Walk.Deceleration <= 0 {
		disable(&a.Movement, "movement", "walk speed, acceleration and deceleration must be positive")
	}
	if m.Ground.CheckDistance <= 0 {
		errs = append(errs, errors.New("ground: check distance must be positive"))
		m.Ground.CheckDistance = 0.1
	}
	if m.Jump.JumpHeight <= 0 || m.Ground.Gravity <= 0 {
		disable(&a.Jump, "jump", "jump height and gravity must be positive")
	}
	if m.Jump.MaxDoubleJumps < 0 || m.Jump.DoubleJumpHeight <= 0 {
		disable(&a.DoubleJump, "double jump", "double jump height must be positive")
	}
	if m.Dash.Duration <= 0 || m.Dash.Speed <= 0 {
		disable(&a.Dash, "dash", "dash duration and speed must be positive")
	}
	if m.Climb.RaycastDistance <= 0 || m.Climb.VaultDuration <= 0 {
		disable(&a.Climb, "climb", "raycast distance and vault duration must be positive")
	}
	if m.Climb.LurchDuration <= 0 {
		disable(&a.Lurch, "lurch", "lurch duration must be positive")
	}
	if m.Pound.MinExplosionForce > m.Pound.MaxExplosionForce {
		disable(&a.GroundPound, "ground pound", "min explosion force exceeds max")
	}
	if m.Crouch.CrouchingHeight <= 0 || m.Crouch.CrouchingHeight > m.Crouch.StandingHeight {
		disable(&a.Crouch, "crouch", "crouching height must be in (0, standing height]")
		disable(&a.Slide, "slide", "requires crouch")
	}
	if m.Fly.SmoothingTime < 0 {
		disable(&a.Fly, "fly", "smoothing time must not be negative")
	}
	if !hasView {
		disable(&a.Grab, "grab", "no camera view to cast from")
		disable(&a.DashToCamera, "dash to camera", "no camera view")
	}
	return errors.Join(errs...)
}

var MovementComponent = NewComponent[Movement]()
