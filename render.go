package fieldmap

import (
	"fmt"
	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
	"reflect"
	"time"
)

//renderer converts a target field value to its text form
type renderer func(value interface{}) string

//newRenderer adapts func(V) string to a renderer for the supplied field type
func newRenderer(expr string, fieldType reflect.Type, fn interface{}) (renderer, error) {
	if actual, ok := fn.(func(interface{}) string); ok {
		return actual, nil
	}
	fnValue := reflect.ValueOf(fn)
	if fn == nil || fnValue.Kind() != reflect.Func {
		return nil, &TypeMismatchError{Expr: expr, Message: fmt.Sprintf("Stringify() expects func(%v) string, but had %T", fieldType, fn)}
	}
	fnType := fnValue.Type()
	if fnType.NumIn() != 1 || fnType.IsVariadic() || fnType.NumOut() != 1 || fnType.Out(0) != stringType {
		return nil, &TypeMismatchError{Expr: expr, Message: fmt.Sprintf("Stringify() expects func(%v) string, but had %v", fieldType, fnType)}
	}
	inType := fnType.In(0)
	if !fieldType.AssignableTo(inType) {
		return nil, &TypeMismatchError{Expr: expr, Expected: fieldType, Actual: inType, Message: "Stringify() argument does not match To() field"}
	}
	return func(value interface{}) string {
		arg := reflect.Zero(inType)
		if value != nil {
			arg = reflect.ValueOf(value)
		}
		return fnValue.Call([]reflect.Value{arg})[0].String()
	}, nil
}

//defaultRenderer renders value types with their natural text form, nil references as empty text
func defaultRenderer(fieldType reflect.Type, tag reflect.StructTag) renderer {
	layout := time.RFC3339
	if isTimeType(fieldType) {
		layout = timeLayout(tag)
	}
	return func(value interface{}) string {
		return render(value, layout)
	}
}

func render(value interface{}, layout string) string {
	if value == nil {
		return ""
	}
	rValue := reflect.ValueOf(value)
	if isReferenceKind(rValue.Kind()) && rValue.IsNil() {
		return ""
	}
	switch actual := value.(type) {
	case time.Time:
		return actual.Format(layout)
	case *time.Time:
		return actual.Format(layout)
	case fmt.Stringer:
		return actual.String()
	case error:
		return actual.Error()
	}
	if rValue.Kind() == reflect.Ptr {
		return render(rValue.Elem().Interface(), layout)
	}
	return fmt.Sprint(value)
}

//timeLayout returns layout from format tag, i.e. `format:"timeLayout=2006-01-02"` or `format:"dateFormat=YYYY-MM-DD"`
func timeLayout(tag reflect.StructTag) string {
	aTag, _ := format.Parse(tag)
	switch {
	case aTag == nil:
	case aTag.TimeLayout != "":
		return aTag.TimeLayout
	case aTag.DateFormat != "":
		return ftime.DateFormatToTimeLayout(aTag.DateFormat)
	}
	if layout := tag.Get("timeLayout"); layout != "" {
		return layout
	}
	return time.RFC3339
}
