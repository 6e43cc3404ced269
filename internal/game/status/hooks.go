package status

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// ScriptScope is the script scope that effect hooks are dispatched to.
const ScriptScope = "effects"

// ScriptCaller dispatches a named Lua hook within a script scope.
type ScriptCaller interface {
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

func hookArgs(target *combatant.Base, e *combatant.StatusEffect) []lua.LValue {
	return []lua.LValue{
		lua.LString(target.Name),
		lua.LString(e.Type.String()),
		lua.LNumber(e.Stacks()),
		lua.LNumber(e.RemainingDuration),
	}
}

// callHook invokes "<e.Hook>_<event>" when the effect names a hook.
// It returns LNil when scripting is disabled, the effect has no hook, or the call fails.
func (eng *Engine) callHook(event string, target *combatant.Base, e *combatant.StatusEffect) lua.LValue {
	if eng.scripts == nil || e.Hook == "" {
		return lua.LNil
	}
	ret, err := eng.scripts.CallHook(ScriptScope, e.Hook+"_"+event, hookArgs(target, e)...)
	if err != nil {
		eng.logger.Warn("status effect hook failed",
			zap.String("hook", e.Hook),
			zap.String("event", event),
			zap.Error(err),
		)
		return lua.LNil
	}
	return ret
}
