package script

import (
	"math"

	"scriptbridge/internal/bridge"

	"github.com/Shopify/go-lua"
	"github.com/go-gl/mathgl/mgl32"
)

func (r *Runtime) registerGlobals() {
	l := r.l

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "new", Function: vectorNew},
		{Name: "length", Function: vectorLength},
		{Name: "normalize", Function: vectorNormalize},
		{Name: "dot", Function: vectorDot},
		{Name: "distance", Function: vectorDistance},
	}, 0)
	for _, d := range directions {
		pushVector(l, d.v)
		l.SetField(-2, d.name)
	}
	l.SetGlobal("Vector3")

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "debug", Function: r.logAt(bridge.LogDebug)},
		{Name: "info", Function: r.logAt(bridge.LogInfo)},
		{Name: "warn", Function: r.logAt(bridge.LogWarn)},
		{Name: "error", Function: r.logAt(bridge.LogError)},
	}, 0)
	l.SetGlobal("Log")

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "is_key_pressed", Function: r.isKeyPressed},
		{Name: "is_mouse_button_pressed", Function: r.isMouseButtonPressed},
	}, 0)
	l.SetGlobal("Input")

	l.NewTable()
	for name, k := range bridge.KeyNames() {
		l.PushInteger(int(k))
		l.SetField(-2, name)
	}
	l.SetGlobal("Key")

	l.NewTable()
	for name, b := range map[string]bridge.MouseButton{
		"Left":   bridge.MouseLeft,
		"Right":  bridge.MouseRight,
		"Middle": bridge.MouseMiddle,
	} {
		l.PushInteger(int(b))
		l.SetField(-2, name)
	}
	l.SetGlobal("Mouse")

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "create", Function: r.sceneCreate},
		{Name: "remove", Function: r.sceneRemove},
		{Name: "entity", Function: r.sceneEntity},
	}, 0)
	l.SetGlobal("Scene")
}

// ─── Vector3 ─────────────────────────────────────────────────────────────────

// Forward is -Z.
var directions = []struct {
	name string
	v    mgl32.Vec3
}{
	{"zero", mgl32.Vec3{0, 0, 0}},
	{"one", mgl32.Vec3{1, 1, 1}},
	{"forward", mgl32.Vec3{0, 0, -1}},
	{"back", mgl32.Vec3{0, 0, 1}},
	{"right", mgl32.Vec3{1, 0, 0}},
	{"left", mgl32.Vec3{-1, 0, 0}},
	{"up", mgl32.Vec3{0, 1, 0}},
	{"down", mgl32.Vec3{0, -1, 0}},
}

func vectorNew(l *lua.State) int {
	x := lua.OptNumber(l, 1, 0)
	y := lua.OptNumber(l, 2, 0)
	z := lua.OptNumber(l, 3, 0)
	pushVector(l, mgl32.Vec3{float32(x), float32(y), float32(z)})
	return 1
}

func vectorLength(l *lua.State) int {
	l.PushNumber(float64(checkVector(l, 1).Len()))
	return 1
}

func vectorNormalize(l *lua.State) int {
	v := checkVector(l, 1)
	if v.Len() == 0 {
		pushVector(l, v)
		return 1
	}
	pushVector(l, v.Normalize())
	return 1
}

func vectorDot(l *lua.State) int {
	l.PushNumber(float64(checkVector(l, 1).Dot(checkVector(l, 2))))
	return 1
}

func vectorDistance(l *lua.State) int {
	l.PushNumber(float64(checkVector(l, 1).Sub(checkVector(l, 2)).Len()))
	return 1
}

// ─── Log ─────────────────────────────────────────────────────────────────────

// logAt formats its arguments with string.format and writes the result to
// the engine's diagnostics sink.
func (r *Runtime) logAt(level bridge.LogLevel) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		if n == 0 {
			return 0
		}
		l.Global("string")
		l.Field(-1, "format")
		l.Remove(-2)
		l.Insert(1)
		l.Call(n, 1)
		msg, _ := l.ToString(-1)
		r.bridge.Logf(level, "%s", msg)
		return 0
	}
}

// ─── Input ───────────────────────────────────────────────────────────────────

// checkKey accepts a key code or a key name such as "Space".
func checkKey(l *lua.State, i int) bridge.Key {
	if l.TypeOf(i) == lua.TypeString {
		name, _ := l.ToString(i)
		k, ok := bridge.KeyNames()[name]
		if !ok {
			lua.ArgumentError(l, i, "unknown key "+name)
		}
		return k
	}
	return bridge.Key(lua.CheckInteger(l, i))
}

func (r *Runtime) isKeyPressed(l *lua.State) int {
	k := checkKey(l, 1)
	l.PushBoolean(r.input != nil && r.input.IsKeyPressed(k))
	return 1
}

func (r *Runtime) isMouseButtonPressed(l *lua.State) int {
	b := bridge.MouseButton(lua.CheckInteger(l, 1))
	l.PushBoolean(r.input != nil && r.input.IsMouseButtonPressed(b))
	return 1
}

// ─── Scene ───────────────────────────────────────────────────────────────────

func (r *Runtime) sceneCreate(l *lua.State) int {
	h, err := r.bridge.CreateEntity(lua.OptString(l, 1, ""))
	if err != nil {
		raise(l, err)
	}
	r.pushEntity(h)
	return 1
}

func (r *Runtime) sceneRemove(l *lua.State) int {
	if err := r.bridge.RemoveEntity(checkEntity(l, 1)); err != nil {
		raise(l, err)
	}
	return 0
}

// sceneEntity wraps a raw id; the result may refer to nothing.
func (r *Runtime) sceneEntity(l *lua.State) int {
	id := lua.CheckNumber(l, 1)
	if id < 0 || id != math.Trunc(id) {
		lua.ArgumentError(l, 1, "entity id must be a non-negative integer")
	}
	r.pushEntity(bridge.Handle(uint64(id)))
	return 1
}
