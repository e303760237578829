// Package assert panics on broken internal invariants. The panic is turned
// into a 500 by the recovery middleware.
package assert

import (
	"fmt"
	"reflect"
)

func NotNil(obj any, format string, args ...interface{}) {
	if isNil(obj) {
		panic(formatMsg(format, args...))
	}
}

func IsNil(obj any, format string, args ...interface{}) {
	if !isNil(obj) {
		panic(formatMsg(format, args...))
	}
}

func True(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(formatMsg(format, args...))
	}
}

// isNil also catches typed nil pointers stored in an interface.
func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func formatMsg(format string, args ...interface{}) string {
	return "assertion failed: " + fmt.Sprintf(format, args...)
}
