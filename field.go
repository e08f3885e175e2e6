package fieldmap

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

type (
	//getter reads a value from a struct pointer
	getter func(ptr unsafe.Pointer) (interface{}, error)

	//fieldMapping is a declared field correspondence in one of its states
	fieldMapping interface {
		compile() (*applier, error)
	}

	//sourceOnly holds From() getter
	sourceOnly struct {
		expr      string
		getter    getter
		valueType reflect.Type
	}

	//transformed holds transform∘getter
	transformed struct {
		expr      string
		getter    getter
		valueType reflect.Type
	}

	//complete holds composed getter, validated target path and its setter
	complete struct {
		expr      string
		getter    getter
		valueType reflect.Type
		target    *Path
		setter    *Setter
		render    renderer
	}

	//mappingSet holds field mappings in declaration order
	mappingSet struct {
		mux      sync.RWMutex
		entries  []fieldMapping
		revision uint64
	}
)

func (m *sourceOnly) compile() (*applier, error) {
	return nil, &StateError{Message: fmt.Sprintf("can't compile %v: only From() defined, chain a call to Then() or To()", m.expr)}
}

func (m *transformed) compile() (*applier, error) {
	return nil, &StateError{Message: fmt.Sprintf("can't compile %v: From()+Then() defined, To() missing", m.expr)}
}

func (m *complete) compile() (*applier, error) {
	render := m.render
	if render == nil {
		render = defaultRenderer(m.setter.leaf.field.Type, m.setter.leaf.tag)
	}
	targetSelector := m.target.selector
	return &applier{
		name:   m.target.Leaf(),
		getter: m.getter,
		setter: m.setter,
		target: func(ptr unsafe.Pointer) (interface{}, error) {
			return value(targetSelector, ptr)
		},
		render: render,
	}, nil
}

//withRender returns a complete mapping copy using supplied renderer
func (m *complete) withRender(render renderer) *complete {
	ret := *m
	ret.render = render
	return &ret
}

func newSourceOnly(root reflect.Type, expr string) (*sourceOnly, error) {
	aPath, err := ExtractPath(root, expr)
	if err != nil {
		return nil, err
	}
	sel := aPath.selector
	return &sourceOnly{
		expr:      expr,
		valueType: aPath.Type,
		getter: func(ptr unsafe.Pointer) (interface{}, error) {
			return value(sel, ptr)
		},
	}, nil
}

//newTransformed composes transform with getter, transform has to be func(A) B or func(A) (B, error)
func newTransformed(expr string, source getter, valueType reflect.Type, transform interface{}) (*transformed, error) {
	fn := reflect.ValueOf(transform)
	if transform == nil || fn.Kind() != reflect.Func {
		return nil, &TypeMismatchError{Expr: expr, Message: fmt.Sprintf("Then() expects func(%v) B, but had %T", valueType, transform)}
	}
	fnType := fn.Type()
	if fnType.NumIn() != 1 || fnType.IsVariadic() {
		return nil, &TypeMismatchError{Expr: expr, Message: fmt.Sprintf("Then() expects func(%v) B, but had %v", valueType, fnType)}
	}
	withError := fnType.NumOut() == 2 && fnType.Out(1) == errorType
	if fnType.NumOut() != 1 && !withError {
		return nil, &TypeMismatchError{Expr: expr, Message: fmt.Sprintf("Then() expects func(%v) B or func(%v) (B, error), but had %v", valueType, valueType, fnType)}
	}
	inType := fnType.In(0)
	if !valueType.AssignableTo(inType) {
		return nil, &TypeMismatchError{Expr: expr, Expected: valueType, Actual: inType, Message: "Then() argument does not match From() value"}
	}
	return &transformed{
		expr:      expr,
		valueType: fnType.Out(0),
		getter: func(ptr unsafe.Pointer) (interface{}, error) {
			input, err := source(ptr)
			if err != nil {
				return nil, err
			}
			arg := reflect.Zero(inType)
			if input != nil {
				arg = reflect.ValueOf(input)
			}
			out := fn.Call([]reflect.Value{arg})
			if withError {
				if err, _ := out[1].Interface().(error); err != nil {
					return nil, err
				}
			}
			return out[0].Interface(), nil
		},
	}, nil
}

//newComplete validates target expression against the produced value type
func newComplete(target reflect.Type, expr string, source getter, valueType reflect.Type, targetExpr string) (*complete, error) {
	aPath, err := ExtractPath(target, targetExpr)
	if err != nil {
		return nil, err
	}
	if len(aPath.Names) == 0 {
		return nil, parseErrorf(targetExpr, "expected at least one target property, but had bare root")
	}
	if aPath.IsMapped() {
		return nil, parseErrorf(targetExpr, "only simple properties are supported on the target, %v() is not assignable", MapFunc)
	}
	if aPath.HasConversion() {
		return nil, &TypeMismatchError{Expr: targetExpr, Expected: aPath.Type, Actual: valueType,
			Message: "the target field doesn't completely match the type of the source field, replace the conversion with an explicit cast using Then() after From()"}
	}
	if aPath.Type != valueType {
		return nil, &TypeMismatchError{Expr: targetExpr, Expected: aPath.Type, Actual: valueType,
			Message: "implicit conversion is not supported, use Then() after From() with an explicit cast"}
	}
	setter, err := NewSetter(target, aPath.Chain())
	if err != nil {
		return nil, err
	}
	return &complete{expr: expr, getter: source, valueType: valueType, target: aPath, setter: setter}, nil
}

func (s *mappingSet) add(mapping fieldMapping) int {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.entries = append(s.entries, mapping)
	atomic.AddUint64(&s.revision, 1)
	return len(s.entries) - 1
}

//replace swaps entry state keeping its declaration position
func (s *mappingSet) replace(id int, mapping fieldMapping) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.entries[id] = mapping
	atomic.AddUint64(&s.revision, 1)
}

//swap replaces entry only if it still holds expected state
func (s *mappingSet) swap(id int, expected, mapping fieldMapping) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.entries[id] != expected {
		return false
	}
	s.entries[id] = mapping
	atomic.AddUint64(&s.revision, 1)
	return true
}

func (s *mappingSet) touch() {
	atomic.AddUint64(&s.revision, 1)
}

func (s *mappingSet) version() uint64 {
	return atomic.LoadUint64(&s.revision)
}

//snapshot returns entries with the revision they were taken at
func (s *mappingSet) snapshot() ([]fieldMapping, uint64) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]fieldMapping, len(s.entries))
	copy(ret, s.entries)
	return ret, s.version()
}
