// Command presetinfo validates movement presets and prints what they resolve
// to: the abilities left enabled, headline tuning and the stamina cost of
// each action.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/ecs/system"
	"github.com/milk9111/moveset/logger"
	"github.com/milk9111/moveset/prefabs"
)

func main() {
	withView := flag.Bool("view", true, "validate as if the controller has a camera")
	weight := flag.Float64("weight", 1, "held body weight used for the grab cost")
	dt := flag.Float64("dt", 1, "seconds used for per-second costs")
	dump := flag.Bool("dump", false, "print the fully resolved tuning as YAML")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if err := logger.Init(*logLevel, ""); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	names := flag.Args()
	if len(names) == 0 {
		all, err := prefabs.PresetNames()
		if err != nil {
			logger.Fatal("list presets", zap.Error(err))
		}
		names = all
	}

	failed := false
	for _, name := range names {
		p, err := prefabs.LoadPreset(name, *withView)
		if err != nil {
			logger.Error("load preset", zap.String("preset", name), zap.Error(err))
			failed = true
			continue
		}
		report(p, *weight, *dt)
		if *dump {
			out, err := yaml.Marshal(p.Movement)
			if err != nil {
				logger.Fatal("dump preset", zap.String("preset", name), zap.Error(err))
			}
			fmt.Printf("%s\n", out)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func report(p *prefabs.Preset, weight, dt float64) {
	m := p.Movement
	fmt.Printf("== %s\n", p.Name)
	if p.Warnings != nil {
		fmt.Printf("warnings:\n  %v\n", p.Warnings)
	}

	fmt.Printf("walk %.2f m/s (sprint x%.2f), jump %.2f m -> %.2f m/s, %d double jumps\n",
		m.Walk.WalkSpeed, m.Walk.SprintMultiplier,
		m.Jump.JumpHeight, system.JumpVelocity(m.Jump.JumpHeight, m.Ground.Gravity),
		m.Jump.MaxDoubleJumps)
	fmt.Printf("dash %.2f m/s for %.2fs, cooldown %.2fs, %d air dashes\n",
		m.Dash.Speed, m.Dash.Duration, m.Dash.Cooldown, m.Dash.MaxAirDashes)
	fmt.Printf("pound force %.0f..%.0f (%.0f at a 10 m fall), radius %.1f\n",
		system.PoundForce(m.Pound, 0), system.PoundForce(m.Pound, 1e9), system.PoundForce(m.Pound, 10),
		m.Pound.ExplosionRadius)

	st := p.NewStamina()
	fmt.Printf("stamina %.0f, regen %.1f/s after %.1fs", st.Max, st.RegenRate, st.RegenDelay)
	if cs, ok := p.Stamina.Formula.(*prefabs.CostScript); ok {
		fmt.Printf(", cost script %s", cs.Name())
	}
	fmt.Println()
	if len(p.Bindings) > 0 {
		if _, err := system.DefaultBindings().WithOverrides(p.Bindings); err != nil {
			fmt.Printf("bindings:\n  %v\n", err)
		} else {
			fmt.Printf("bindings: %v\n", p.Bindings)
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "action\tcharged\tbase\tcost")
	for a := component.StaminaAction(0); a < component.StaminaActionCount; a++ {
		cost := 0.0
		if st.Uses[a] {
			cost = st.Cost(a, weight, dt)
		}
		per := ""
		if a.Continuous() {
			per = fmt.Sprintf(" per %.2gs", dt)
		}
		fmt.Fprintf(tw, "%s\t%v\t%.2f\t%.2f%s\n", a, st.Uses[a], st.Costs[a], cost, per)
	}
	_ = tw.Flush()
	fmt.Println()
}
