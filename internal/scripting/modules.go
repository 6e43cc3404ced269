package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine.log and engine.dice are defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	mod := L.NewTable()
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()

	// engine.dice.roll(expr) -> {total, dice, modifier}; dice is the sum of kept dice.
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		result, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		sum := 0
		for _, d := range result.Dice {
			sum += d
		}
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(result.Total()))
		L.SetField(t, "dice", lua.LNumber(sum))
		L.SetField(t, "modifier", lua.LNumber(result.Modifier))
		L.Push(t)
		return 1
	}))

	// engine.dice.chance(pct) -> bool
	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		pct := float64(L.CheckNumber(1))
		L.Push(lua.LBool(m.roller.Chance("lua", pct)))
		return 1
	}))

	return mod
}
