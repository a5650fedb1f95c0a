package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/moveset/ecs/component"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// The tuning specs mirror the component structs field for field so they
// convert directly. Keep the field order in sync.

type AbilitiesSpec struct {
	Movement             bool `yaml:"movement"`
	OmniMovement         bool `yaml:"omni_movement"`
	HeadObstructionCheck bool `yaml:"head_obstruction_check"`
	Crouch               bool `yaml:"crouch"`
	CrouchIsToggle       bool `yaml:"crouch_is_toggle"`
	Sprint               bool `yaml:"sprint"`
	SprintIsToggle       bool `yaml:"sprint_is_toggle"`
	Slide                bool `yaml:"slide"`

	Jump       bool `yaml:"jump"`
	DoubleJump bool `yaml:"double_jump"`
	WallJump   bool `yaml:"wall_jump"`
	WallSlide  bool `yaml:"wall_slide"`

	Climb               bool `yaml:"climb"`
	Lurch               bool `yaml:"lurch"`
	RequireClimbableTag bool `yaml:"require_climbable_tag"`

	Dash            bool `yaml:"dash"`
	DashToCamera    bool `yaml:"dash_to_camera"`
	OnlyForwardDash bool `yaml:"only_forward_dash"`
	AirDash         bool `yaml:"air_dash"`

	GroundPound   bool `yaml:"ground_pound"`
	MomentumPound bool `yaml:"momentum_pound"`

	ResetDoubleJumpOnWallJump bool `yaml:"reset_double_jump_on_wall_jump"`
	ResetDashOnWallJump       bool `yaml:"reset_dash_on_wall_jump"`
	DashResetsDoubleJump      bool `yaml:"dash_resets_double_jump"`
	DoubleJumpResetsDash      bool `yaml:"double_jump_resets_dash"`

	Fly                  bool `yaml:"fly"`
	StopFlyingOnGrounded bool `yaml:"stop_flying_on_grounded"`
	GhostFly             bool `yaml:"ghost_fly"`
	ToggleGhost          bool `yaml:"toggle_ghost"`

	Grab         bool `yaml:"grab"`
	GrabIsToggle bool `yaml:"grab_is_toggle"`

	AutoRun    bool `yaml:"auto_run"`
	AutoJump   bool `yaml:"auto_jump"`
	AutoSprint bool `yaml:"auto_sprint"`
	StepClimb  bool `yaml:"step_climb"`
	Unstick    bool `yaml:"unstick"`
}

type GroundSpec struct {
	Layers            component.LayerMask `yaml:"layers"`
	CheckDistance     float64             `yaml:"check_distance"`
	ProbeRadiusFactor float64             `yaml:"probe_radius_factor"`
	ProbeOffset       float64             `yaml:"probe_offset"`
	MinAirTime        float64             `yaml:"min_air_time"`
	Gravity           float64             `yaml:"gravity"`
	GroundedVelocity  float64             `yaml:"grounded_velocity"`
	TerminalVelocity  float64             `yaml:"terminal_velocity"`
}

type WalkSpec struct {
	Acceleration     float64 `yaml:"acceleration"`
	Deceleration     float64 `yaml:"deceleration"`
	WalkSpeed        float64 `yaml:"walk_speed"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	AirControlFactor float64 `yaml:"air_control_factor"`
	RotationSpeed    float64 `yaml:"rotation_speed"`
	AutoSprintDelay  float64 `yaml:"auto_sprint_delay"`
}

type SlopeSpec struct {
	MaxSlopeAngle        float64 `yaml:"max_slope_angle"`
	SlideDownSpeed       float64 `yaml:"slide_down_speed"`
	SlideForceMultiplier float64 `yaml:"slide_force_multiplier"`
}

type CrouchSpec struct {
	StandingHeight        float64             `yaml:"standing_height"`
	CrouchingHeight       float64             `yaml:"crouching_height"`
	CrouchSpeedMultiplier float64             `yaml:"crouch_speed_multiplier"`
	CrouchDownForce       float64             `yaml:"crouch_down_force"`
	AutoStandDelay        float64             `yaml:"auto_stand_delay"`
	SlideSpeed            float64             `yaml:"slide_speed"`
	RequiredSpeedFactor   float64             `yaml:"required_speed_factor"`
	HeadClearance         float64             `yaml:"head_clearance"`
	HeadLayers            component.LayerMask `yaml:"head_layers"`
}

type JumpSpec struct {
	JumpHeight                  float64 `yaml:"jump_height"`
	DoubleJumpHeight            float64 `yaml:"double_jump_height"`
	MaxDoubleJumps              int     `yaml:"max_double_jumps"`
	JumpBufferTime              float64 `yaml:"jump_buffer_time"`
	CoyoteTime                  float64 `yaml:"coyote_time"`
	WallSlideSpeed              float64 `yaml:"wall_slide_speed"`
	WallJumpForce               float64 `yaml:"wall_jump_force"`
	WallJumpDirectionMultiplier float64 `yaml:"wall_jump_direction_multiplier"`
}

type ClimbSpec struct {
	RaycastDistance        float64 `yaml:"raycast_distance"`
	UpClimbSpeed           float64 `yaml:"up_climb_speed"`
	HorizontalAndDownSpeed float64 `yaml:"horizontal_and_down_speed"`
	ClimbableTag           string  `yaml:"climbable_tag"`
	VerticalThreshold      float64 `yaml:"vertical_threshold"`
	TopEdgeTolerance       float64 `yaml:"top_edge_tolerance"`
	EdgeVaultHeight        float64 `yaml:"edge_vault_height"`
	VaultForward           float64 `yaml:"vault_forward"`
	VaultDuration          float64 `yaml:"vault_duration"`
	LurchDistance          float64 `yaml:"lurch_distance"`
	LurchDuration          float64 `yaml:"lurch_duration"`
	PauseBetweenLurches    float64 `yaml:"pause_between_lurches"`
}

type DashSpec struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	Cooldown     float64 `yaml:"cooldown"`
	MaxAirDashes int     `yaml:"max_air_dashes"`
}

type PoundSpec struct {
	Cooldown                  float64             `yaml:"cooldown"`
	Speed                     float64             `yaml:"speed"`
	MomentumSpeedMultiplier   float64             `yaml:"momentum_speed_multiplier"`
	MomentumSpeedThreshold    float64             `yaml:"momentum_speed_threshold"`
	MomentumDurationThreshold float64             `yaml:"momentum_duration_threshold"`
	MinExplosionForce         float64             `yaml:"min_explosion_force"`
	MaxExplosionForce         float64             `yaml:"max_explosion_force"`
	ExplosionForceMultiplier  float64             `yaml:"explosion_force_multiplier"`
	ExplosionRadius           float64             `yaml:"explosion_radius"`
	ExplosionLayers           component.LayerMask `yaml:"explosion_layers"`
}

type FlySpec struct {
	BaseSpeed        float64 `yaml:"base_speed"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	SmoothingTime    float64 `yaml:"smoothing_time"`
}

type GrabSpec struct {
	Distance      float64             `yaml:"distance"`
	HoldDistance  float64             `yaml:"hold_distance"`
	Force         float64             `yaml:"force"`
	MaxHoldOffset float64             `yaml:"max_hold_offset"`
	Layers        component.LayerMask `yaml:"layers"`
}

type StepSpec struct {
	StepHeight        float64             `yaml:"step_height"`
	StepSmooth        float64             `yaml:"step_smooth"`
	LowerRayLength    float64             `yaml:"lower_ray_length"`
	UpperRayLength    float64             `yaml:"upper_ray_length"`
	MinStepSlopeAngle float64             `yaml:"min_step_slope_angle"`
	MaxStepSlopeAngle float64             `yaml:"max_step_slope_angle"`
	Layers            component.LayerMask `yaml:"layers"`
}

type UnstickSpec struct {
	StuckThreshold float64 `yaml:"stuck_threshold"`
	MinMoveSpeed   float64 `yaml:"min_move_speed"`
	DownImpulse    float64 `yaml:"down_impulse"`
	ForwardImpulse float64 `yaml:"forward_impulse"`
}

type StaminaSpec struct {
	Max                  float64            `yaml:"max"`
	RegenRate            float64            `yaml:"regen_rate"`
	RegenDelay           float64            `yaml:"regen_delay"`
	CanRegen             bool               `yaml:"can_regen"`
	Costs                map[string]float64 `yaml:"costs"`
	Uses                 map[string]bool    `yaml:"uses"`
	GrabWeightMultiplier float64            `yaml:"grab_weight_multiplier"`
	// CostScript names a tengo script under scripts/ overriding costs.
	CostScript string `yaml:"cost_script"`
}

type BodySpec struct {
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

// PresetSpec is the on-disk layout of a movement preset. Unset keys keep
// the values of the spec it is decoded over.
type PresetSpec struct {
	Name      string        `yaml:"name"`
	Abilities AbilitiesSpec `yaml:"abilities"`
	Ground    GroundSpec    `yaml:"ground"`
	Walk      WalkSpec      `yaml:"walk"`
	Slope     SlopeSpec     `yaml:"slope"`
	Crouch    CrouchSpec    `yaml:"crouch"`
	Jump      JumpSpec      `yaml:"jump"`
	Climb     ClimbSpec     `yaml:"climb"`
	Dash      DashSpec      `yaml:"dash"`
	Pound     PoundSpec     `yaml:"pound"`
	Fly       FlySpec       `yaml:"fly"`
	Grab      GrabSpec      `yaml:"grab"`
	Step      StepSpec      `yaml:"step"`
	Unstick   UnstickSpec   `yaml:"unstick"`
	Stamina   StaminaSpec   `yaml:"stamina"`
	Body      BodySpec      `yaml:"body"`
	// Bindings replaces the keys of actions by name, e.g. jump: [Space, KeyW].
	Bindings map[string][]string `yaml:"bindings"`
}

// DefaultPresetSpec is the base every preset file is decoded over.
func DefaultPresetSpec() PresetSpec {
	m := component.DefaultMovement()
	spec := PresetSpec{
		Name:      m.Preset,
		Abilities: AbilitiesSpec(m.Abilities),
		Ground:    GroundSpec(m.Ground),
		Walk:      WalkSpec(m.Walk),
		Slope:     SlopeSpec(m.Slope),
		Crouch:    CrouchSpec(m.Crouch),
		Jump:      JumpSpec(m.Jump),
		Climb:     ClimbSpec(m.Climb),
		Dash:      DashSpec(m.Dash),
		Pound:     PoundSpec(m.Pound),
		Fly:       FlySpec(m.Fly),
		Grab:      GrabSpec(m.Grab),
		Step:      StepSpec(m.Step),
		Unstick:   UnstickSpec(m.Unstick),
		Stamina: StaminaSpec{
			Max: 100, RegenRate: 10, RegenDelay: 1, CanRegen: true,
			Costs:                map[string]float64{},
			Uses:                 map[string]bool{},
			GrabWeightMultiplier: 1,
		},
		Body: BodySpec{Radius: 0.5, Mass: 1},
	}
	for a, cost := range defaultCosts {
		spec.Stamina.Costs[a.String()] = cost
		spec.Stamina.Uses[a.String()] = true
	}
	return spec
}

var defaultCosts = map[component.StaminaAction]float64{
	component.StaminaSprint:     10,
	component.StaminaJump:       10,
	component.StaminaDoubleJump: 15,
	component.StaminaWallJump:   15,
	component.StaminaDash:       20,
	component.StaminaSlide:      10,
	component.StaminaClimb:      15,
	component.StaminaGrab:       5,
}

func (s PresetSpec) Movement() component.Movement {
	return component.Movement{
		Preset:    s.Name,
		Abilities: component.Abilities(s.Abilities),
		Ground:    component.GroundTuning(s.Ground),
		Walk:      component.WalkTuning(s.Walk),
		Slope:     component.SlopeTuning(s.Slope),
		Crouch:    component.CrouchTuning(s.Crouch),
		Jump:      component.JumpTuning(s.Jump),
		Climb:     component.ClimbTuning(s.Climb),
		Dash:      component.DashTuning(s.Dash),
		Pound:     component.PoundTuning(s.Pound),
		Fly:       component.FlyTuning(s.Fly),
		Grab:      component.GrabTuning(s.Grab),
		Step:      component.StepTuning(s.Step),
		Unstick:   component.UnstickTuning(s.Unstick),
	}
}

// Stamina builds a full pool from the spec. Unknown action names are an
// error.
func (s StaminaSpec) Stamina() (*component.Stamina, error) {
	st := component.NewStamina(s.Max, s.RegenRate, s.RegenDelay)
	st.CanRegen = s.CanRegen
	st.GrabWeightMultiplier = s.GrabWeightMultiplier
	for name, cost := range s.Costs {
		a, ok := parseStaminaAction(name)
		if !ok {
			return nil, fmt.Errorf("prefabs: stamina cost: unknown action %q", name)
		}
		if cost < 0 {
			return nil, fmt.Errorf("prefabs: stamina cost %s: must not be negative", name)
		}
		st.Costs[a] = cost
	}
	for name, use := range s.Uses {
		a, ok := parseStaminaAction(name)
		if !ok {
			return nil, fmt.Errorf("prefabs: stamina uses: unknown action %q", name)
		}
		st.Uses[a] = use
	}
	return st, nil
}

func parseStaminaAction(name string) (component.StaminaAction, bool) {
	for a := component.StaminaAction(0); a < component.StaminaActionCount; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

type BlockSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	W   float64 `yaml:"w"`
	H   float64 `yaml:"h"`
	Tag string  `yaml:"tag"`
}

type PropSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Size float64 `yaml:"size"`
	Mass float64 `yaml:"mass"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type LevelSpec struct {
	Name   string      `yaml:"name"`
	Spawn  PointSpec   `yaml:"spawn"`
	Blocks []BlockSpec `yaml:"blocks"`
	Props  []PropSpec  `yaml:"props"`
}

func LoadLevel(name string) (*LevelSpec, error) {
	data, err := LoadLevelFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load level %s: %w", name, err)
	}
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal level %s: %w", name, err)
	}
	return &spec, nil
}
