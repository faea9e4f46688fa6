// Package scripting hosts the Lua layer for NPC dialogue and hints. Scripts
// override the static YAML tables; missing functions fall back to Go.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only; each
// game instance gets its own engine.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is not an error: the engine then answers
// nothing and every caller falls back.
func NewEngine(scriptDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Talk calls Lua npc_talk(npc_id, topic) and returns the reply, or "" when
// the script declines so the caller can fall back to the YAML table.
func (e *Engine) Talk(npcID, topic string) string {
	fn := e.vm.GetGlobal("npc_talk")
	if fn == lua.LNil {
		return ""
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(npcID), lua.LString(topic)); err != nil {
		e.log.Error("lua npc_talk error", zap.Error(err))
		return ""
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// Hint calls Lua progress_hint(area, selected_path, achievements) and returns
// a context-sensitive hint, or "" to fall back.
func (e *Engine) Hint(area, selectedPath string, achievements int) string {
	fn := e.vm.GetGlobal("progress_hint")
	if fn == lua.LNil {
		return ""
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(area), lua.LString(selectedPath), lua.LNumber(achievements)); err != nil {
		e.log.Error("lua progress_hint error", zap.Error(err))
		return ""
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
