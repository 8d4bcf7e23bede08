package scripting

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook names dispatched by the turn resolver.
const (
	HookItemTaken    = "on_item_taken"
	HookEntityKilled = "on_entity_killed"
	HookRoomEntered  = "on_room_entered"
)

// zoneVM is one zone's LState. GopherLua states are single-threaded, so
// every load and call holds mu.
type zoneVM struct {
	mu      sync.Mutex
	L       *lua.LState
	binding Binding
}

// Manager owns one sandboxed LState per zone and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same zone serialize on
// that zone's VM; different zones run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*zoneVM
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager whose VMs run at most instLimit opcodes per
// load or call (0 uses DefaultInstructionLimit).
//
// Precondition: logger must be non-nil.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*zoneVM),
		limit:  instLimit,
		logger: logger,
	}
}

// LoadZone loads every *.lua file in scriptDir on disk into zoneID's VM.
func (m *Manager) LoadZone(zoneID, scriptDir string) error {
	return m.LoadZoneFS(zoneID, os.DirFS(scriptDir), ".")
}

// LoadZoneFS creates a sandboxed VM for zoneID, registers the world.*
// module, then executes every *.lua file in dir of fsys in lexicographic
// order. A previously loaded VM for the zone is replaced and closed.
//
// Precondition: zoneID must be non-empty.
// Postcondition: Zone VM is registered; returns error on Lua load failure.
func (m *Manager) LoadZoneFS(zoneID string, fsys fs.FS, dir string) error {
	if zoneID == "" {
		return errors.New("scripting: zone id must not be empty")
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, zoneID, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".lua" {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	vm := &zoneVM{L: NewSandboxedState()}
	registerModules(vm)
	for _, p := range files {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			vm.L.Close()
			return fmt.Errorf("scripting: reading %q for %q: %w", p, zoneID, err)
		}
		if err := m.exec(vm.L, p, src); err != nil {
			vm.L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", p, zoneID, err)
		}
	}

	m.mu.Lock()
	old := m.vms[zoneID]
	m.vms[zoneID] = vm
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Info("scripting: zone loaded",
		zap.String("zone", zoneID),
		zap.Int("files", len(files)),
	)
	return nil
}

// LoadAll treats every subdirectory of root as a zone id and loads its
// scripts. A missing root is not an error.
func (m *Manager) LoadAll(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadZoneFS(e.Name(), fsys, path.Join(root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) exec(L *lua.LState, name string, src []byte) error {
	release := WithInstructionLimit(L, m.limit)
	defer release()
	fn, err := L.Load(bytes.NewReader(src), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

// HasZone reports whether a VM is loaded for zoneID.
func (m *Manager) HasZone(zoneID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[zoneID]
	return ok
}

// CallHook calls the named Lua global function in zoneID's VM with b bound
// to the world.* module. Returns (LNil, nil) if the zone has no VM or the
// hook is not defined. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(zoneID, hook string, b Binding, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	vm := m.vms[zoneID]
	m.mu.RUnlock()
	if vm == nil {
		m.logger.Debug("scripting: no VM for zone",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	fn := vm.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	vm.binding = b
	release := WithInstructionLimit(vm.L, m.limit)
	defer func() {
		release()
		vm.binding = nil
	}()

	if err := vm.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := vm.L.Get(-1)
	vm.L.Pop(1)
	return ret, nil
}

// Trigger calls hook with string arguments and discards its result.
func (m *Manager) Trigger(zoneID, hook string, b Binding, args ...string) {
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LString(a)
	}
	_, _ = m.CallHook(zoneID, hook, b, largs...)
}

// Close closes every zone VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, vm := range m.vms {
		vm.mu.Lock()
		vm.L.Close()
		vm.mu.Unlock()
		delete(m.vms, id)
	}
}
