package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// CostScript is a compiled tengo cost formula. The script sees action, base,
// weight and dt and assigns cost; leaving cost undefined keeps the built-in
// formula for that action.
//
//	cost := undefined
//	if action == "grab" { cost = (base + weight * weight) * dt }
type CostScript struct {
	name     string
	compiled *tengo.Compiled
}

func CompileCost(name string, src []byte) (*CostScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("action", "")
	_ = script.Add("base", 0.0)
	_ = script.Add("weight", 0.0)
	_ = script.Add("dt", 0.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile cost script %s: %w", name, err)
	}
	// A dry run surfaces runtime errors at load time instead of mid-tick.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("prefabs: run cost script %s: %w", name, err)
	}
	return &CostScript{name: name, compiled: compiled}, nil
}

func (c *CostScript) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

func (c *CostScript) Cost(action component.StaminaAction, base, weight, dt float64) (float64, bool) {
	if c == nil || c.compiled == nil {
		return 0, false
	}
	vars := map[string]any{"action": action.String(), "base": base, "weight": weight, "dt": dt}
	for k, v := range vars {
		if err := c.compiled.Set(k, v); err != nil {
			logger.Warn("cost script set", zap.String("script", c.name), zap.String("var", k), zap.Error(err))
			return 0, false
		}
	}
	if err := c.compiled.Run(); err != nil {
		logger.Warn("cost script run", zap.String("script", c.name), zap.Stringer("action", action), zap.Error(err))
		return 0, false
	}
	v := c.compiled.Get("cost")
	if v == nil || v.IsUndefined() {
		return 0, false
	}
	switch v.ValueType() {
	case "int", "float":
		return v.Float(), true
	}
	logger.Warn("cost script result", zap.String("script", c.name), zap.String("type", v.ValueType()))
	return 0, false
}

var _ component.CostFormula = (*CostScript)(nil)
