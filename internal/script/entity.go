package script

import (
	"fmt"

	"scriptbridge/internal/bridge"

	"github.com/Shopify/go-lua"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	entityTypeName    = "scriptbridge.Entity"
	componentTypeName = "scriptbridge.Component"
	vectorTypeName    = "scriptbridge.Vector3"
)

// entity is the userdata behind a Lua Entity. It holds only the handle.
type entity struct {
	h bridge.Handle
}

// component is the userdata behind a Lua component view.
type component struct {
	p bridge.Proxy
}

func (r *Runtime) registerTypes() {
	l := r.l

	lua.NewMetaTable(l, entityTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__index", Function: r.entityIndex},
		{Name: "__eq", Function: entityEq},
		{Name: "__tostring", Function: entityString},
	}, 0)
	l.Pop(1)

	lua.NewMetaTable(l, componentTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__index", Function: r.componentIndex},
		{Name: "__newindex", Function: r.componentNewIndex},
		{Name: "__tostring", Function: componentString},
	}, 0)
	l.Pop(1)

	lua.NewMetaTable(l, vectorTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__add", Function: vectorAdd},
		{Name: "__sub", Function: vectorSub},
		{Name: "__mul", Function: vectorMul},
		{Name: "__unm", Function: vectorUnm},
		{Name: "__eq", Function: vectorEq},
		{Name: "__tostring", Function: vectorString},
	}, 0)
	l.Pop(1)
}

// ─── Entity ──────────────────────────────────────────────────────────────────

func (r *Runtime) pushEntity(h bridge.Handle) {
	r.l.PushUserData(&entity{h: h})
	lua.SetMetaTableNamed(r.l, entityTypeName)
}

func checkEntity(l *lua.State, i int) bridge.Handle {
	if e, ok := lua.CheckUserData(l, i, entityTypeName).(*entity); ok {
		return e.h
	}
	lua.ArgumentError(l, i, "entity expected")
	return bridge.Nil
}

// raise turns a Go error into a Lua error. It does not return.
func raise(l *lua.State, err error) {
	lua.Errorf(l, "%s", err.Error())
}

func (r *Runtime) entityIndex(l *lua.State) int {
	h := checkEntity(l, 1)
	key := lua.CheckString(l, 2)
	if key == "id" {
		l.PushInteger(int(h.ID()))
		return 1
	}
	if fn, ok := r.methods[key]; ok {
		l.PushGoFunction(fn)
		return 1
	}
	l.PushNil()
	return 1
}

func (r *Runtime) entityMethods() map[string]lua.Function {
	return map[string]lua.Function{
		"name":         r.entityName,
		"set_name":     r.entitySetName,
		"position":     r.transformGetter(bridge.FieldPosition),
		"set_position": r.transformSetter(bridge.FieldPosition),
		"rotation":     r.transformGetter(bridge.FieldRotation),
		"set_rotation": r.transformSetter(bridge.FieldRotation),
		"scale":        r.transformGetter(bridge.FieldScale),
		"set_scale":    r.transformSetter(bridge.FieldScale),
		"has":          r.entityHas,
		"create":       r.entityCreate,
		"get":          r.entityGet,
		"on":           r.entityOn,
		"remove":       r.entityRemove,
		"valid":        r.entityValid,
	}
}

func (r *Runtime) entityName(l *lua.State) int {
	name, err := r.bridge.Name(checkEntity(l, 1))
	if err != nil {
		raise(l, err)
	}
	l.PushString(name)
	return 1
}

func (r *Runtime) entitySetName(l *lua.State) int {
	h := checkEntity(l, 1)
	name := lua.CheckString(l, 2)
	n, ok := r.bridge.NameOf(h)
	if !ok {
		lua.Errorf(l, "%s has no name component", h.String())
	}
	if err := n.SetName(name); err != nil {
		raise(l, err)
	}
	return 0
}

func (r *Runtime) transformGetter(f bridge.FieldID) lua.Function {
	return func(l *lua.State) int {
		h := checkEntity(l, 1)
		tr, ok := r.bridge.Transform(h)
		if !ok {
			lua.Errorf(l, "%s has no transform", h.String())
		}
		v, err := tr.Vector3(f)
		if err != nil {
			raise(l, err)
		}
		pushVector(l, v)
		return 1
	}
}

func (r *Runtime) transformSetter(f bridge.FieldID) lua.Function {
	return func(l *lua.State) int {
		h := checkEntity(l, 1)
		v := checkVector(l, 2)
		tr, ok := r.bridge.Transform(h)
		if !ok {
			lua.Errorf(l, "%s has no transform", h.String())
		}
		if err := tr.SetVector3(f, v); err != nil {
			raise(l, err)
		}
		return 0
	}
}

func (r *Runtime) checkSchema(l *lua.State, i int) bridge.Schema {
	name := lua.CheckString(l, i)
	s, ok := r.bridge.Registry().ByName(name)
	if !ok {
		lua.ArgumentError(l, i, "unknown component type "+name)
	}
	return s
}

func (r *Runtime) entityHas(l *lua.State) int {
	h := checkEntity(l, 1)
	s := r.checkSchema(l, 2)
	l.PushBoolean(r.bridge.HasComponent(h, s.Token))
	return 1
}

func (r *Runtime) entityCreate(l *lua.State) int {
	h := checkEntity(l, 1)
	s := r.checkSchema(l, 2)
	p, err := r.bridge.CreateComponent(h, s.Token)
	if err != nil {
		raise(l, err)
	}
	pushComponent(l, p)
	return 1
}

func (r *Runtime) entityGet(l *lua.State) int {
	h := checkEntity(l, 1)
	s := r.checkSchema(l, 2)
	p, ok := r.bridge.Component(h, s.Token)
	if !ok {
		l.PushNil()
		return 1
	}
	pushComponent(l, p)
	return 1
}

// entityOn subscribes fn(event) to a category. The event table carries
// category, target, other (contacts) and key (key events).
func (r *Runtime) entityOn(l *lua.State) int {
	h := checkEntity(l, 1)
	name := lua.CheckString(l, 2)
	c, ok := bridge.ParseCategory(name)
	if !ok {
		lua.ArgumentError(l, 2, "unknown event category "+name)
	}
	lua.CheckType(l, 3, lua.TypeFunction)

	l.PushValue(3)
	ref := r.refs.store()
	sub, err := r.bridge.Relay().Subscribe(h, c, func(ev bridge.Event) error {
		return r.callListener(ref, ev)
	})
	if err != nil {
		r.refs.release(ref)
		raise(l, err)
	}
	r.listeners[h] = append(r.listeners[h], listenerRef{sub: sub, ref: ref})
	return 0
}

func (r *Runtime) callListener(ref int, ev bridge.Event) error {
	l := r.l
	top := l.Top()
	defer l.SetTop(top)
	r.refs.push(ref)
	l.CreateTable(0, 4)
	l.PushString(ev.Category.String())
	l.SetField(-2, "category")
	r.pushEntity(ev.Target)
	l.SetField(-2, "target")
	if ev.Other.Valid() {
		r.pushEntity(ev.Other)
		l.SetField(-2, "other")
	}
	if ev.Category == bridge.KeyPress || ev.Category == bridge.KeyRelease {
		l.PushInteger(int(ev.Key))
		l.SetField(-2, "key")
	}
	return l.ProtectedCall(1, 0, 0)
}

func (r *Runtime) entityRemove(l *lua.State) int {
	if err := r.bridge.RemoveEntity(checkEntity(l, 1)); err != nil {
		raise(l, err)
	}
	return 0
}

func (r *Runtime) entityValid(l *lua.State) int {
	l.PushBoolean(r.bridge.Alive(checkEntity(l, 1)))
	return 1
}

func entityEq(l *lua.State) int {
	a, aok := lua.TestUserData(l, 1, entityTypeName).(*entity)
	b, bok := lua.TestUserData(l, 2, entityTypeName).(*entity)
	l.PushBoolean(aok && bok && a.h == b.h)
	return 1
}

func entityString(l *lua.State) int {
	l.PushString(checkEntity(l, 1).String())
	return 1
}

// ─── Components ──────────────────────────────────────────────────────────────

func pushComponent(l *lua.State, p bridge.Proxy) {
	l.PushUserData(&component{p: p})
	lua.SetMetaTableNamed(l, componentTypeName)
}

func checkComponent(l *lua.State, i int) bridge.Proxy {
	if c, ok := lua.CheckUserData(l, i, componentTypeName).(*component); ok {
		return c.p
	}
	lua.ArgumentError(l, i, "component expected")
	return bridge.Proxy{}
}

var componentMethods = map[string]lua.Function{
	"exists": func(l *lua.State) int {
		l.PushBoolean(checkComponent(l, 1).Exists())
		return 1
	},
	"set_mesh": func(l *lua.State) int {
		p := checkComponent(l, 1)
		if err := (bridge.Mesh{Proxy: p}).SetMesh(lua.CheckString(l, 2)); err != nil {
			raise(l, err)
		}
		return 0
	},
	"set_script": func(l *lua.State) int {
		p := checkComponent(l, 1)
		if err := (bridge.Script{Proxy: p}).SetScript(lua.CheckString(l, 2)); err != nil {
			raise(l, err)
		}
		return 0
	},
}

// componentIndex reads a field by schema name on every access; nothing is
// cached in the userdata.
func (r *Runtime) componentIndex(l *lua.State) int {
	p := checkComponent(l, 1)
	key := lua.CheckString(l, 2)
	if key == "type" {
		s, _ := p.Schema()
		l.PushString(s.Name)
		return 1
	}
	if fn, ok := componentMethods[key]; ok {
		l.PushGoFunction(fn)
		return 1
	}
	v, err := p.Get(key)
	if err != nil {
		raise(l, err)
	}
	pushValue(l, v)
	return 1
}

func (r *Runtime) componentNewIndex(l *lua.State) int {
	p := checkComponent(l, 1)
	key := lua.CheckString(l, 2)
	s, _ := p.Schema()
	f, ok := s.Field(key)
	if !ok {
		lua.Errorf(l, "%s has no field %s", s.Name, key)
	}
	if err := p.Set(key, checkValue(l, 3, f)); err != nil {
		raise(l, err)
	}
	return 0
}

func componentString(l *lua.State) int {
	p := checkComponent(l, 1)
	s, _ := p.Schema()
	l.PushString(s.Name + "(" + p.Handle().String() + ")")
	return 1
}

func pushValue(l *lua.State, v bridge.Value) {
	switch v.Kind {
	case bridge.KindVector3:
		pushVector(l, v.Vector)
	case bridge.KindScalar:
		l.PushNumber(float64(v.Scalar))
	case bridge.KindBool:
		l.PushBoolean(v.Bool)
	case bridge.KindEnum:
		l.PushInteger(v.Enum)
	case bridge.KindString:
		l.PushString(v.String)
	default:
		l.PushNil()
	}
}

func checkValue(l *lua.State, i int, f bridge.Field) bridge.Value {
	switch f.Kind {
	case bridge.KindVector3:
		return bridge.VectorValue(checkVector(l, i))
	case bridge.KindScalar:
		return bridge.ScalarValue(float32(lua.CheckNumber(l, i)))
	case bridge.KindBool:
		lua.CheckType(l, i, lua.TypeBoolean)
		return bridge.BoolValue(l.ToBoolean(i))
	case bridge.KindEnum:
		return bridge.EnumValue(lua.CheckInteger(l, i))
	case bridge.KindString:
		return bridge.StringValue(lua.CheckString(l, i))
	}
	lua.Errorf(l, "field %s has no kind", f.Name)
	return bridge.Value{}
}

// ─── Vectors ─────────────────────────────────────────────────────────────────

// Vectors are plain tables {x=, y=, z=} with a shared metatable for
// arithmetic. Scripts may pass any table with numeric x, y, z.
func pushVector(l *lua.State, v mgl32.Vec3) {
	l.CreateTable(0, 3)
	l.PushNumber(float64(v[0]))
	l.SetField(-2, "x")
	l.PushNumber(float64(v[1]))
	l.SetField(-2, "y")
	l.PushNumber(float64(v[2]))
	l.SetField(-2, "z")
	lua.SetMetaTableNamed(l, vectorTypeName)
}

func checkVector(l *lua.State, i int) mgl32.Vec3 {
	lua.CheckType(l, i, lua.TypeTable)
	var v mgl32.Vec3
	for n, key := range [3]string{"x", "y", "z"} {
		l.Field(i, key)
		f, ok := l.ToNumber(-1)
		if !ok && !l.IsNil(-1) {
			lua.ArgumentError(l, i, "vector component "+key+" is not a number")
		}
		v[n] = float32(f)
		l.Pop(1)
	}
	return v
}

func vectorAdd(l *lua.State) int {
	pushVector(l, checkVector(l, 1).Add(checkVector(l, 2)))
	return 1
}

func vectorSub(l *lua.State) int {
	pushVector(l, checkVector(l, 1).Sub(checkVector(l, 2)))
	return 1
}

// vectorMul scales a vector by a number on either side.
func vectorMul(l *lua.State) int {
	if s, ok := l.ToNumber(2); ok && l.TypeOf(2) == lua.TypeNumber {
		pushVector(l, checkVector(l, 1).Mul(float32(s)))
		return 1
	}
	s := lua.CheckNumber(l, 1)
	pushVector(l, checkVector(l, 2).Mul(float32(s)))
	return 1
}

func vectorUnm(l *lua.State) int {
	pushVector(l, checkVector(l, 1).Mul(-1))
	return 1
}

func vectorEq(l *lua.State) int {
	l.PushBoolean(checkVector(l, 1) == checkVector(l, 2))
	return 1
}

func vectorString(l *lua.State) int {
	v := checkVector(l, 1)
	l.PushString(fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2]))
	return 1
}
