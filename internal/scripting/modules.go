package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/status"
)

// RegisterModules registers the engine.* Lua tables into L:
//   - engine.log.{debug,info,warn,error}(msg) write to the manager's logger
//   - engine.status.kinds lists every status kind name
//   - engine.status.percent(value, pct) returns floor(value*pct/100)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(m.logFunc(fn)))
	}
	L.SetField(engine, "log", logTbl)

	statusTbl := L.NewTable()
	kinds := L.NewTable()
	for _, k := range status.AllKinds {
		kinds.Append(lua.LString(k.String()))
	}
	L.SetField(statusTbl, "kinds", kinds)
	L.SetField(statusTbl, "percent", L.NewFunction(luaPercent))
	L.SetField(engine, "status", statusTbl)

	L.SetGlobal("engine", engine)
}

func (m *Manager) logFunc(fn func(string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}
}

func luaPercent(L *lua.LState) int {
	v := L.CheckInt(1)
	pct := L.CheckInt(2)
	L.Push(lua.LNumber(v * pct / 100))
	return 1
}

// eventTable converts ev into the Lua table passed to status hooks.
func eventTable(L *lua.LState, ev status.HookEvent) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("bearer", lua.LString(ev.BearerID))
	t.RawSetString("kind", lua.LString(ev.Kind.String()))
	t.RawSetString("potency", lua.LNumber(ev.Potency))
	t.RawSetString("remaining", lua.LNumber(ev.Remaining))
	t.RawSetString("damage", lua.LNumber(ev.Damage))
	return t
}
