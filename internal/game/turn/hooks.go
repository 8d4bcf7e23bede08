package turn

import "github.com/cory-johannsen/mazmorra/internal/scripting"

// Hooks dispatches content script hooks. *scripting.Manager satisfies it.
type Hooks interface {
	Trigger(zoneID, hook string, b scripting.Binding, args ...string)
}

// NopHooks ignores every hook.
type NopHooks struct{}

// Trigger does nothing.
func (NopHooks) Trigger(string, string, scripting.Binding, ...string) {}

// binding exposes the in-progress turn to a script.
type binding struct {
	t *turnCtx
}

func (b binding) HasFlag(name string) bool { return b.t.state.WorldState.Has(name) }

func (b binding) SetFlag(name string) { b.t.setFlag(name) }

func (b binding) Fact(line string) { b.t.fact(line) }
