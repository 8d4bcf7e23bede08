package scripting

import lua "github.com/yuin/gopher-lua"

// Binding is the session view a hook may read and mutate. Calls are
// synchronous and made on the goroutine running the hook.
type Binding interface {
	// HasFlag reports whether the named world flag is set.
	HasFlag(name string) bool
	// SetFlag sets the named world flag.
	SetFlag(name string)
	// Fact appends an objective fact line to the current turn.
	Fact(line string)
}

// registerModules installs the world.* table into vm's LState. Each
// function resolves vm.binding at call time; outside a hook call they are
// no-ops returning false.
func registerModules(vm *zoneVM) {
	L := vm.L
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"set_flag": func(L *lua.LState) int {
			name := L.CheckString(1)
			if vm.binding != nil {
				vm.binding.SetFlag(name)
			}
			return 0
		},
		"has_flag": func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(lua.LBool(vm.binding != nil && vm.binding.HasFlag(name)))
			return 1
		},
		"fact": func(L *lua.LState) int {
			line := L.CheckString(1)
			if vm.binding != nil && line != "" {
				vm.binding.Fact(line)
			}
			return 0
		},
	})
	L.SetGlobal("world", mod)
}
