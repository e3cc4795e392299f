package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Manager owns one sandboxed LState holding every loaded status script and
// dispatches hooks into it. It implements status.HookCaller.
//
// Manager is safe for concurrent use: an LState is single-threaded, so every
// call into the VM holds the mutex.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	limit  int
	logger *zap.Logger
}

var _ status.HookCaller = (*Manager)(nil)

// NewManager creates a Manager with no VM loaded.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager; hook calls are no-ops until LoadDir succeeds.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// LoadDir creates a sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in dir in lexicographic order. A successful load
// replaces any previously loaded VM.
//
// Precondition: dir must be a readable directory; instLimit >= 0 (0 uses
// DefaultInstructionLimit) and bounds each file load and each hook call.
// Postcondition: On error the previous VM, if any, is kept.
func (m *Manager) LoadDir(dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range files {
		cancel()
		cancel = resetBudget(L, instLimit)
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
	}
	m.state, m.cancel, m.limit = L, cancel, instLimit
	m.mu.Unlock()

	m.logger.Info("status scripts loaded", zap.String("dir", dir), zap.Int("files", len(files)))
	return nil
}

// Loaded reports whether a VM is available.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// HasHook reports whether the loaded VM defines a global function named hook.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return false
	}
	_, ok := m.state.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function with args under a fresh
// instruction budget.
//
// Postcondition: Returns (LNil, nil) when no VM is loaded or hook is not
// defined; returns (LNil, err) on a Lua runtime error or an exhausted budget.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callLocked(hook, func(*lua.LState) []lua.LValue { return args })
}

// CallStatusHook implements status.HookCaller. The hook receives one table
// with fields bearer, kind, potency, remaining and damage. A numeric return
// value is reported as a damage override; any other return is ignored.
// Runtime errors are logged at Warn level and never propagated.
func (m *Manager) CallStatusHook(hook string, ev status.HookEvent) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ret, err := m.callLocked(hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, ev)}
	})
	if err != nil {
		m.logger.Warn("scripting: status hook failed",
			zap.String("hook", hook),
			zap.String("kind", ev.Kind.String()),
			zap.String("bearer", ev.BearerID),
			zap.Error(err),
		)
		return 0, false
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
		m.state = nil
	}
}

func (m *Manager) callLocked(hook string, args func(*lua.LState) []lua.LValue) (lua.LValue, error) {
	L := m.state
	if L == nil {
		m.logger.Debug("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn, ok := L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil, nil
	}

	m.cancel()
	m.cancel = resetBudget(L, m.limit)
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args(L)...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
