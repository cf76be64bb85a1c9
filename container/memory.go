package container

import (
	"fmt"
	"sync"

	"github.com/hupe1980/sparsecdf/dtype"
	"github.com/hupe1980/sparsecdf/tensor"
)

// Memory is an in-memory Store. It is the native backend: file and
// blob containers are Memory stores serialized through the binary
// format in this package.
//
// Thread-safe for concurrent reads and writes.
type Memory struct {
	mu     sync.RWMutex
	root   *memGroup
	groups map[string]*memGroup
	order  []string
	closed bool
}

// NewMemory creates an empty in-memory container.
func NewMemory() *Memory {
	m := &Memory{groups: make(map[string]*memGroup)}
	m.root = newMemGroup(m, "/")
	return m
}

// Root returns the root group.
func (m *Memory) Root() Group { return m.root }

// CreateGroup creates a named subgroup.
func (m *Memory) CreateGroup(name string) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	if name == "" {
		return nil, fmt.Errorf("container: empty group name")
	}

	if _, ok := m.groups[name]; ok {
		return nil, fmt.Errorf("%w: group %q", ErrDuplicateName, name)
	}

	g := newMemGroup(m, name)
	m.groups[name] = g
	m.order = append(m.order, name)

	return g, nil
}

// Group returns an existing subgroup.
func (m *Memory) Group(name string) (Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	g, ok := m.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, name)
	}

	return g, nil
}

// Groups lists subgroup names in creation order.
func (m *Memory) Groups() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Close releases the store. Subsequent operations return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func newMemGroup(store *Memory, name string) *memGroup {
	return &memGroup{
		store: store,
		name:  name,
		attrs: make(map[string]string),
		vars:  make(map[string]*memVar),
	}
}

type memGroup struct {
	store     *Memory
	name      string
	attrs     map[string]string
	attrOrder []string
	vars      map[string]*memVar
	order     []string
}

func (g *memGroup) Name() string { return g.name }

func (g *memGroup) CreateArray(name string, code dtype.Code, length int) (Variable, error) {
	return g.create(name, code, length, false)
}

func (g *memGroup) CreateScalar(name string, code dtype.Code) (Variable, error) {
	return g.create(name, code, 0, true)
}

func (g *memGroup) create(name string, code dtype.Code, length int, scalar bool) (Variable, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if g.store.closed {
		return nil, ErrClosed
	}

	if name == "" {
		return nil, fmt.Errorf("container: empty variable name")
	}

	if !code.Valid() {
		return nil, fmt.Errorf("container: unknown type code %q", string(code))
	}

	if length < 0 {
		return nil, fmt.Errorf("container: negative length %d for variable %q", length, name)
	}

	if _, ok := g.vars[name]; ok {
		return nil, fmt.Errorf("%w: variable %q in group %q", ErrDuplicateName, name, g.name)
	}

	v := &memVar{
		group: g,
		info:  VarInfo{Name: name, Code: code, Len: length, Scalar: scalar},
	}
	g.vars[name] = v
	g.order = append(g.order, name)

	return v, nil
}

func (g *memGroup) Variable(name string) (Variable, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	if g.store.closed {
		return nil, ErrClosed
	}

	v, ok := g.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: variable %q in group %q", ErrNotFound, name, g.name)
	}

	return v, nil
}

func (g *memGroup) Variables() []VarInfo {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	out := make([]VarInfo, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.vars[name].info)
	}
	return out
}

func (g *memGroup) SetAttr(key, value string) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if g.store.closed {
		return ErrClosed
	}

	if key == "" {
		return fmt.Errorf("container: empty attribute key")
	}

	if _, ok := g.attrs[key]; !ok {
		g.attrOrder = append(g.attrOrder, key)
	}
	g.attrs[key] = value

	return nil
}

func (g *memGroup) Attr(key string) (string, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	v, ok := g.attrs[key]
	return v, ok
}

type memVar struct {
	group   *memGroup
	info    VarInfo
	arr     tensor.Array
	scalar  tensor.Scalar
	written bool
}

func (v *memVar) Info() VarInfo { return v.info }

func (v *memVar) WriteArray(a tensor.Array) error {
	v.group.store.mu.Lock()
	defer v.group.store.mu.Unlock()

	if v.group.store.closed {
		return ErrClosed
	}

	if v.info.Scalar {
		return fmt.Errorf("container: variable %q is scalar", v.info.Name)
	}

	if a.Type().Code() != v.info.Code {
		return fmt.Errorf("container: variable %q declared %q, got %s array", v.info.Name, string(v.info.Code), a.Type())
	}

	if a.Len() != v.info.Len {
		return fmt.Errorf("container: variable %q declared length %d, got %d", v.info.Name, v.info.Len, a.Len())
	}

	v.arr = a
	v.written = true

	return nil
}

func (v *memVar) ReadArray() (tensor.Array, error) {
	v.group.store.mu.RLock()
	defer v.group.store.mu.RUnlock()

	if v.group.store.closed {
		return tensor.Array{}, ErrClosed
	}

	if v.info.Scalar {
		return tensor.Array{}, fmt.Errorf("container: variable %q is scalar", v.info.Name)
	}

	if !v.written {
		return tensor.Array{}, fmt.Errorf("container: variable %q not written", v.info.Name)
	}

	return v.arr, nil
}

func (v *memVar) WriteScalar(s tensor.Scalar) error {
	v.group.store.mu.Lock()
	defer v.group.store.mu.Unlock()

	if v.group.store.closed {
		return ErrClosed
	}

	if !v.info.Scalar {
		return fmt.Errorf("container: variable %q is an array", v.info.Name)
	}

	if s.Type().Code() != v.info.Code {
		return fmt.Errorf("container: variable %q declared %q, got %s scalar", v.info.Name, string(v.info.Code), s.Type())
	}

	v.scalar = s
	v.written = true

	return nil
}

func (v *memVar) ReadScalar() (tensor.Scalar, error) {
	v.group.store.mu.RLock()
	defer v.group.store.mu.RUnlock()

	if v.group.store.closed {
		return tensor.Scalar{}, ErrClosed
	}

	if !v.info.Scalar {
		return tensor.Scalar{}, fmt.Errorf("container: variable %q is an array", v.info.Name)
	}

	if !v.written {
		return tensor.Scalar{}, fmt.Errorf("container: variable %q not written", v.info.Name)
	}

	return v.scalar, nil
}
