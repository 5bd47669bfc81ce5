package scripting

import (
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed lua/*.lua
var builtin embed.FS

// Engine wraps a single gopher-lua VM for game logic execution.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	rng *rand.Rand
	log *zap.Logger
}

// NewEngine creates a Lua engine with the built-in formulas, then loads the
// scripts under scriptsDir/combat, which may redefine them. An empty or
// missing directory keeps the built-ins.
func NewEngine(scriptsDir string, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, rng: rng, log: log}
	vm.SetGlobal("rand_int", vm.NewFunction(e.luaRandInt))

	if err := e.loadBuiltin(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin scripts: %w", err)
	}

	if scriptsDir != "" {
		combatPath := filepath.Join(scriptsDir, "combat")
		if err := e.loadDir(combatPath); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load combat scripts: %w", err)
		}
	}

	return e, nil
}

func (e *Engine) loadBuiltin() error {
	entries, err := builtin.ReadDir("lua")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src, err := builtin.ReadFile("lua/" + entry.Name())
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
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

// luaRandInt implements rand_int(min, max), inclusive.
func (e *Engine) luaRandInt(L *lua.LState) int {
	lo := L.CheckInt(1)
	hi := L.CheckInt(2)
	L.Push(lua.LNumber(e.randInt(lo, hi)))
	return 1
}

func (e *Engine) randInt(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + e.rng.Intn(hi-lo+1)
}

// Damage calls calc_damage(weapon_level, armor_level).
func (e *Engine) Damage(weaponLevel, armorLevel int) int {
	v, ok := e.callIntFunc("calc_damage", weaponLevel, armorLevel)
	if !ok {
		return e.fallbackDamage(weaponLevel, armorLevel)
	}
	if v < 0 {
		return 0
	}
	return v
}

// HitPoints calls calc_hp(armor_level).
func (e *Engine) HitPoints(armorLevel int) int {
	v, ok := e.callIntFunc("calc_hp", armorLevel)
	if !ok || v <= 0 {
		return 80 + (armorLevel-1)*30
	}
	return v
}

func (e *Engine) fallbackDamage(weaponLevel, armorLevel int) int {
	dmg := weaponLevel*e.randInt(5, 10) - armorLevel*e.randInt(1, 3)
	if dmg <= 0 {
		return e.randInt(0, 3)
	}
	return dmg
}

// callIntFunc calls a global Lua function with int args and returns one int.
func (e *Engine) callIntFunc(name string, args ...int) (int, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0, false
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name))
		return 0, false
	}
	return int(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
