package fieldmap

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

var errorType = reflect.TypeOf((*error)(nil)).Elem()

var stringType = reflect.TypeOf("")

//basicTypes lists predeclared types usable as an explicit conversion wrapper
var basicTypes = map[string]reflect.Type{
	"bool":       reflect.TypeOf(false),
	"string":     stringType,
	"int":        reflect.TypeOf(int(0)),
	"int8":       reflect.TypeOf(int8(0)),
	"int16":      reflect.TypeOf(int16(0)),
	"int32":      reflect.TypeOf(int32(0)),
	"int64":      reflect.TypeOf(int64(0)),
	"uint":       reflect.TypeOf(uint(0)),
	"uint8":      reflect.TypeOf(uint8(0)),
	"uint16":     reflect.TypeOf(uint16(0)),
	"uint32":     reflect.TypeOf(uint32(0)),
	"uint64":     reflect.TypeOf(uint64(0)),
	"uintptr":    reflect.TypeOf(uintptr(0)),
	"float32":    reflect.TypeOf(float32(0)),
	"float64":    reflect.TypeOf(float64(0)),
	"complex64":  reflect.TypeOf(complex64(0)),
	"complex128": reflect.TypeOf(complex128(0)),
	"byte":       reflect.TypeOf(byte(0)),
	"rune":       reflect.TypeOf(rune(0)),
}

//ensureStruct returns struct type behind supplied pointers or nil
func ensureStruct(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Struct:
		return t
	case reflect.Ptr:
		return ensureStruct(t.Elem())
	}
	return nil
}

func isTimeType(t reflect.Type) bool {
	return ensureStruct(t) == timeType
}

//isReferenceKind returns true for kinds whose zero value is nil
func isReferenceKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
