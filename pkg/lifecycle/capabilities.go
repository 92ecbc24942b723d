package lifecycle

import "reflect"

// Capabilities records which lifecycle contracts a value implements.
// Conductors compute it once per item rather than type-testing on every call.
type Capabilities struct {
	Activator   Activator
	Deactivator Deactivator
	Guard       GuardClose
	Child       Child
}

// CapabilitiesOf looks up the lifecycle contracts x implements. A nil x,
// including a typed nil pointer, has none.
func CapabilitiesOf(x any) Capabilities {
	if isNil(x) {
		return Capabilities{}
	}
	var c Capabilities
	c.Activator, _ = x.(Activator)
	c.Deactivator, _ = x.(Deactivator)
	c.Guard, _ = x.(GuardClose)
	c.Child, _ = x.(Child)
	return c
}

// None reports whether x implements no lifecycle contract.
func (c Capabilities) None() bool {
	return c.Activator == nil && c.Deactivator == nil && c.Guard == nil && c.Child == nil
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
