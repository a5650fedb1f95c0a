package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

const (
	hudFeedSize     = 6
	hudFeedLifetime = 180 // frames
	staminaBarW     = 240
	staminaBarH     = 14
)

type feedLine struct {
	text string
	age  int
}

// HUD draws the stamina bar, the current mode and a short feed of recent
// events.
type HUD struct {
	face ebtext.Face
	feed []feedLine
}

func NewHUD() *HUD {
	return &HUD{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

// Record is an effect listener.
func (h *HUD) Record(evt ecs.Event) {
	switch evt.Type {
	case ecs.EventAbilityRejected:
		h.Notice(fmt.Sprintf("rejected %v", evt.Data))
	case ecs.EventLanded:
		if evt.Value < 0.5 {
			return
		}
		h.Notice(fmt.Sprintf("landed after %.1fs", evt.Value))
	case ecs.EventGroundPound:
		h.Notice(fmt.Sprintf("pound %.0f (%v hit)", evt.Value, evt.Data))
	case ecs.EventPresetApplied:
		h.Notice(fmt.Sprintf("preset %v", evt.Data))
	default:
		h.Notice(string(evt.Type))
	}
}

// Notice pushes a line into the feed, dropping the oldest.
func (h *HUD) Notice(text string) {
	h.feed = append(h.feed, feedLine{text: text})
	if len(h.feed) > hudFeedSize {
		h.feed = h.feed[len(h.feed)-hudFeedSize:]
	}
}

func (h *HUD) Draw(w *ecs.World, player ecs.Entity, preset string, screen *ebiten.Image) {
	x := float32(baseWidth - staminaBarW - 20)
	y := float32(20)

	if st, ok := ecs.Get(w, player, component.StaminaComponent.Kind()); ok && st.Max > 0 {
		fill := float32(st.Current / st.Max)
		barColor := color.NRGBA{R: 0x40, G: 0xc0, B: 0x60, A: 0xff}
		if st.Current < st.Max*0.25 {
			barColor = color.NRGBA{R: 0xd0, G: 0x50, B: 0x40, A: 0xff}
		}
		vector.FillRect(screen, x, y, staminaBarW, staminaBarH, color.NRGBA{A: 0xa0}, false)
		vector.FillRect(screen, x, y, staminaBarW*fill, staminaBarH, barColor, false)
		vector.StrokeRect(screen, x, y, staminaBarW, staminaBarH, 1, color.White, false)
		h.text(screen, fmt.Sprintf("%.0f / %.0f", st.Current, st.Max), float64(x), float64(y+staminaBarH+4), color.White)
	}

	if loc, ok := ecs.Get(w, player, component.LocomotionComponent.Kind()); ok {
		h.text(screen, fmt.Sprintf("%s  [%s]", loc.Mode, preset), float64(x), float64(y+staminaBarH+22), color.White)
	}

	for i, line := range h.feed {
		alpha := 1 - float64(line.age)/hudFeedLifetime
		c := color.NRGBA{R: 0xff, G: 0xff, B: 0xa0, A: uint8(255 * alpha)}
		h.text(screen, line.text, 10, float64(baseHeight-20-16*(len(h.feed)-i)), c)
	}
	h.age()
}

func (h *HUD) age() {
	kept := h.feed[:0]
	for _, line := range h.feed {
		line.age++
		if line.age < hudFeedLifetime {
			kept = append(kept, line)
		}
	}
	h.feed = kept
}

func (h *HUD) text(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	ebtext.Draw(screen, s, h.face, op)
}
