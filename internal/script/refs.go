package script

import "github.com/Shopify/go-lua"

const refsKey = "scriptbridge.refs"

// refTable pins Lua values that Go holds on to (behaviour tables, compiled
// chunks, listener functions) in a table kept in the registry.
type refTable struct {
	l    *lua.State
	next int
	free []int
}

func newRefTable(l *lua.State) refTable {
	l.NewTable()
	l.SetField(lua.RegistryIndex, refsKey)
	return refTable{l: l}
}

// store pops the top value and returns its key.
func (t *refTable) store() int {
	var ref int
	if n := len(t.free); n > 0 {
		ref, t.free = t.free[n-1], t.free[:n-1]
	} else {
		t.next++
		ref = t.next
	}
	t.l.Field(lua.RegistryIndex, refsKey)
	t.l.Insert(-2)
	t.l.RawSetInt(-2, ref)
	t.l.Pop(1)
	return ref
}

// push pushes the value stored under ref.
func (t *refTable) push(ref int) {
	t.l.Field(lua.RegistryIndex, refsKey)
	t.l.RawGetInt(-1, ref)
	t.l.Remove(-2)
}

func (t *refTable) release(ref int) {
	t.l.Field(lua.RegistryIndex, refsKey)
	t.l.PushNil()
	t.l.RawSetInt(-2, ref)
	t.l.Pop(1)
	t.free = append(t.free, ref)
}
