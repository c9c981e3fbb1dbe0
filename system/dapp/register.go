// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"encoding/binary"
	"sync"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
)

var elog = clog.New("module", "execs")

// Registrar registration only capability handed to Contract.Register. It
// records id -> handler bindings and can not reach any other contract.
type Registrar interface {
	SystemProcedure(id SystemProcedureID, ep EntryPoint)
	Function(id uint16, ep EntryPoint)
	Procedure(id uint16, ep EntryPoint)
	Expand(hook ExpandHook)
}

// Module a registered contract with its entry point tables
type Module struct {
	Index      uint32
	Descriptor Descriptor
	Contract   Contract
	System     [SystemProcedureCount]EntryPoint
	Functions  []EntryPoint
	Procedures []EntryPoint
	ExpandHook ExpandHook
}

// Lookup entry point by kind and local id; the zero EntryPoint when unknown
func (m *Module) Lookup(kind Kind, id uint16) EntryPoint {
	switch kind {
	case KindSystem:
		if int(id) < len(m.System) {
			return m.System[id]
		}
	case KindFunction:
		if int(id) < len(m.Functions) {
			return m.Functions[id]
		}
	case KindProcedure:
		if int(id) < len(m.Procedures) {
			return m.Procedures[id]
		}
	}
	return EntryPoint{}
}

type tableBuilder struct {
	m   *Module
	err error
}

func (b *tableBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *tableBuilder) check(kind Kind, id uint16, ep EntryPoint) bool {
	if ep.Fn == nil {
		return false
	}
	if ep.LocalsSize > types.MaxContractLocalsSize {
		b.fail(errors.Wrapf(types.ErrLocalsTooLarge, "%s %s %d: %d", b.m.Descriptor.Name, kind, id, ep.LocalsSize))
		return false
	}
	if b.m.Lookup(kind, id).Valid() {
		b.fail(errors.Wrapf(types.ErrDuplicateEntryPoint, "%s %s %d", b.m.Descriptor.Name, kind, id))
		return false
	}
	return true
}

func (b *tableBuilder) SystemProcedure(id SystemProcedureID, ep EntryPoint) {
	if id >= SystemProcedureCount {
		b.fail(errors.Wrapf(types.ErrUnknownEntryPoint, "%s system %d", b.m.Descriptor.Name, id))
		return
	}
	if b.check(KindSystem, uint16(id), ep) {
		b.m.System[id] = ep
	}
}

func grow(table []EntryPoint, id uint16) []EntryPoint {
	if int(id) < len(table) {
		return table
	}
	grown := make([]EntryPoint, int(id)+1)
	copy(grown, table)
	return grown
}

func (b *tableBuilder) Function(id uint16, ep EntryPoint) {
	if b.check(KindFunction, id, ep) {
		b.m.Functions = grow(b.m.Functions, id)
		b.m.Functions[id] = ep
	}
}

func (b *tableBuilder) Procedure(id uint16, ep EntryPoint) {
	if b.check(KindProcedure, id, ep) {
		b.m.Procedures = grow(b.m.Procedures, id)
		b.m.Procedures[id] = ep
	}
}

func (b *tableBuilder) Expand(hook ExpandHook) {
	if b.m.ExpandHook != nil {
		b.fail(errors.Wrapf(types.ErrDuplicateEntryPoint, "%s expand", b.m.Descriptor.Name))
		return
	}
	b.m.ExpandHook = hook
}

// Registry contracts in ascending index order. Index 0 is the host; every
// contract is appended after all of its dependencies, so a contract can only
// depend on lower indices.
type Registry struct {
	mu      sync.Mutex
	modules []*Module
	names   map[string]uint32
	frozen  bool
}

// NewRegistry registry holding only the host slot
func NewRegistry() *Registry {
	return &Registry{
		modules: []*Module{{Index: types.HostContractIndex, Descriptor: Descriptor{Name: "host"}}},
		names:   make(map[string]uint32),
	}
}

// Register appends c with the next index and builds its entry point tables
func (r *Registry) Register(c Contract) (uint32, error) {
	if c == nil {
		return 0, errors.New("Register: contract is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return 0, types.ErrRegistryFrozen
	}
	desc := c.Descriptor()
	if desc.Name == "" {
		return 0, types.ErrEmptyContractName
	}
	if _, dup := r.names[desc.Name]; dup {
		return 0, errors.Wrapf(types.ErrRegistrationOrder, "%s registered twice", desc.Name)
	}
	size, err := stateSize(c, desc)
	if err != nil {
		return 0, err
	}
	desc.StateSize = size
	index := uint32(len(r.modules))
	for _, dep := range desc.Dependencies {
		depIndex, ok := r.names[dep]
		// 依赖必须先注册，所以一定比自己的 index 小
		if !ok || depIndex >= index {
			return 0, errors.Wrapf(types.ErrBadDependency, "%s depends on %s which is not registered before it", desc.Name, dep)
		}
	}
	if index >= types.MaxContractCount {
		return 0, errors.Wrapf(types.ErrRegistrationOrder, "%s: more than %d contracts", desc.Name, types.MaxContractCount)
	}

	b := &tableBuilder{m: &Module{Index: index, Descriptor: desc, Contract: c}}
	c.Register(b)
	if b.err != nil {
		return 0, b.err
	}
	r.modules = append(r.modules, b.m)
	r.names[desc.Name] = index
	elog.Debug("Register", "contract", desc.Name, "index", index,
		"functions", len(b.m.Functions), "procedures", len(b.m.Procedures))
	return index, nil
}

// stateSize encoded size of the state NewState builds. A state with variable
// sized fields can not be measured and the declared size is used instead.
func stateSize(c Contract, desc Descriptor) (uint64, error) {
	size := desc.StateSize
	if n := binary.Size(c.NewState()); n >= 0 {
		if desc.StateSize != 0 && uint64(n) > desc.StateSize {
			return 0, errors.Wrapf(types.ErrStateTooLarge, "%s: state of %d bytes, declared %d", desc.Name, n, desc.StateSize)
		}
		if desc.StateSize == 0 {
			size = uint64(n)
		}
	}
	if size > types.MaxContractStateSize {
		return 0, errors.Wrapf(types.ErrStateTooLarge, "%s: %d > %d", desc.Name, size, types.MaxContractStateSize)
	}
	return size, nil
}

// MustRegister registers contracts in order, any error is fatal
func (r *Registry) MustRegister(cs ...Contract) {
	for _, c := range cs {
		if _, err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Freeze forbids further registration
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Count contract count including the host
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modules)
}

// Modules registered modules, host first, ascending index
func (r *Registry) Modules() []*Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Module(nil), r.modules...)
}

// Index index of the named contract
func (r *Registry) Index(name string) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.names[name]
	return idx, ok
}
