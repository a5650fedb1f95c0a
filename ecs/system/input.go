package system

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

const stickDeadzone = 0.2

// InputSource is the raw device state for one tick.
type InputSource interface {
	KeyHeld(k ebiten.Key) bool
	KeyPressed(k ebiten.Key) bool
	KeyReleased(k ebiten.Key) bool
	ButtonHeld(b ebiten.StandardGamepadButton) bool
	ButtonPressed(b ebiten.StandardGamepadButton) bool
	ButtonReleased(b ebiten.StandardGamepadButton) bool
	// Stick returns the left stick, right and up positive.
	Stick() (x, y float64, ok bool)
}

// Binding maps one logical action to physical inputs.
type Binding struct {
	Keys    []ebiten.Key
	Buttons []ebiten.StandardGamepadButton
}

// Bindings holds the movement keys and the binding of every action.
type Bindings struct {
	Forward, Back, Left, Right []ebiten.Key
	Actions                    [component.ActionCount]Binding
}

func DefaultBindings() Bindings {
	b := Bindings{
		Forward: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
		Back:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
		Left:    []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
		Right:   []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
	}
	b.Actions[component.ActionJump] = Binding{Keys: []ebiten.Key{ebiten.KeySpace}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom}}
	b.Actions[component.ActionSprint] = Binding{Keys: []ebiten.Key{ebiten.KeyShiftLeft}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftStick}}
	b.Actions[component.ActionCrouch] = Binding{Keys: []ebiten.Key{ebiten.KeyControlLeft, ebiten.KeyC}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightRight}}
	b.Actions[component.ActionDash] = Binding{Keys: []ebiten.Key{ebiten.KeyQ}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomRight}}
	b.Actions[component.ActionLurch] = Binding{Keys: []ebiten.Key{ebiten.KeyE}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontTopRight}}
	b.Actions[component.ActionGroundPound] = Binding{Keys: []ebiten.Key{ebiten.KeyX}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft}}
	b.Actions[component.ActionGrab] = Binding{Keys: []ebiten.Key{ebiten.KeyF}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomLeft}}
	b.Actions[component.ActionToggleFly] = Binding{Keys: []ebiten.Key{ebiten.KeyV}}
	b.Actions[component.ActionToggleGhost] = Binding{Keys: []ebiten.Key{ebiten.KeyG}}
	return b
}

var keyNames = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		name := strings.ToLower(k.String())
		if name == "" {
			continue
		}
		m[name] = k
		m[strings.TrimPrefix(name, "key")] = k
	}
	return m
}()

// ParseKey resolves a key name such as "Space", "ShiftLeft" or "KeyQ".
func ParseKey(name string) (ebiten.Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	k, ok := keyNames[n]
	if !ok {
		k, ok = keyNames[strings.TrimPrefix(n, "key")]
	}
	if !ok {
		return 0, fmt.Errorf("input: unknown key %q", name)
	}
	return k, nil
}

// Rebind replaces the keys of an action by name.
func (b *Bindings) Rebind(action string, keys ...string) error {
	a, ok := component.ParseAction(action)
	if !ok {
		return fmt.Errorf("input: unknown action %q", action)
	}
	parsed := make([]ebiten.Key, 0, len(keys))
	for _, name := range keys {
		k, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("input: rebind %s: %w", action, err)
		}
		parsed = append(parsed, k)
	}
	b.Actions[a].Keys = parsed
	return nil
}

// WithOverrides returns a copy of b with the keys of each named action
// replaced. Actions are rebound in name order; every bad entry is reported
// and the rest still apply.
func (b Bindings) WithOverrides(overrides map[string][]string) (Bindings, error) {
	out := b
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := out.Rebind(name, overrides[name]...); err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

func anyKey(keys []ebiten.Key, fn func(ebiten.Key) bool) bool {
	for _, k := range keys {
		if fn(k) {
			return true
		}
	}
	return false
}

func anyButton(buttons []ebiten.StandardGamepadButton, fn func(ebiten.StandardGamepadButton) bool) bool {
	for _, b := range buttons {
		if fn(b) {
			return true
		}
	}
	return false
}

// SampleInput turns raw device state into a command snapshot. The movement
// axes are clamped to unit length; a stick outside the deadzone overrides
// the keys.
func SampleInput(src InputSource, b Bindings) component.Input {
	var in component.Input
	if src == nil {
		return in
	}

	if anyKey(b.Right, src.KeyHeld) {
		in.MoveX++
	}
	if anyKey(b.Left, src.KeyHeld) {
		in.MoveX--
	}
	if anyKey(b.Forward, src.KeyHeld) {
		in.MoveZ++
	}
	if anyKey(b.Back, src.KeyHeld) {
		in.MoveZ--
	}
	if x, y, ok := src.Stick(); ok && math.Hypot(x, y) > stickDeadzone {
		in.MoveX, in.MoveZ = x, y
	}
	if l := math.Hypot(in.MoveX, in.MoveZ); l > 1 {
		in.MoveX /= l
		in.MoveZ /= l
	}

	for i := range b.Actions {
		bind := b.Actions[i]
		in.Actions[i] = component.ActionState{
			Pressed:  anyKey(bind.Keys, src.KeyPressed) || anyButton(bind.Buttons, src.ButtonPressed),
			Held:     anyKey(bind.Keys, src.KeyHeld) || anyButton(bind.Buttons, src.ButtonHeld),
			Released: anyKey(bind.Keys, src.KeyReleased) || anyButton(bind.Buttons, src.ButtonReleased),
		}
	}
	return in
}

// ebitenSource reads the keyboard and the first gamepad.
type ebitenSource struct{}

func (ebitenSource) KeyHeld(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenSource) KeyPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenSource) KeyReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

func (ebitenSource) gamepad() (ebiten.GamepadID, bool) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func (s ebitenSource) ButtonHeld(b ebiten.StandardGamepadButton) bool {
	id, ok := s.gamepad()
	return ok && ebiten.IsStandardGamepadButtonPressed(id, b)
}

func (s ebitenSource) ButtonPressed(b ebiten.StandardGamepadButton) bool {
	id, ok := s.gamepad()
	return ok && inpututil.IsStandardGamepadButtonJustPressed(id, b)
}

func (s ebitenSource) ButtonReleased(b ebiten.StandardGamepadButton) bool {
	id, ok := s.gamepad()
	return ok && inpututil.IsStandardGamepadButtonJustReleased(id, b)
}

func (s ebitenSource) Stick() (float64, float64, bool) {
	id, ok := s.gamepad()
	if !ok {
		return 0, 0, false
	}
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	return x, y, true
}

// InputSystem samples devices once per tick into every Input component.
type InputSystem struct {
	Bindings Bindings
	source   InputSource
}

func NewInputSystem(b Bindings) *InputSystem {
	return &InputSystem{Bindings: b, source: ebitenSource{}}
}

// NewInputSystemWithSource is used where the devices are simulated.
func NewInputSystemWithSource(b Bindings, src InputSource) *InputSystem {
	return &InputSystem{Bindings: b, source: src}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}
	sample := SampleInput(i.source, i.Bindings)
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = sample
	})
}
