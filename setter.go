package fieldmap

import (
	"fmt"
	"github.com/viant/xunsafe"
	"go/ast"
	"reflect"
	"strings"
	"unsafe"
)

//Setter assigns a value to a nested target property: target.p1.p2...pn = value.
//Intermediate holders are never allocated; a nil intermediate pointer fails the assignment.
type Setter struct {
	target reflect.Type
	chain  []string
	leaf   *fieldSelector
	marker *Marker
}

//Type returns assigned property type
func (s *Setter) Type() reflect.Type {
	return s.leaf.field.Type
}

//Path returns dotted root-to-leaf property path
func (s *Setter) Path() string {
	return strings.Join(s.chain, ".")
}

//Set assigns value to the leaf property of the target pointed by ptr
func (s *Setter) Set(ptr unsafe.Pointer, value interface{}) error {
	holderPtr, err := s.leaf.holder.pointer(ptr)
	if err != nil {
		return err
	}
	if s.leaf.isPtr {
		if holderPtr = xunsafe.DerefPointer(holderPtr); holderPtr == nil {
			return fmt.Errorf("nil %v holder of %v", s.leaf.holder.Type(), s.leaf.field.Name)
		}
	}
	fieldValue := reflect.NewAt(s.leaf.field.Type, s.leaf.field.Pointer(holderPtr)).Elem()
	if value == nil {
		fieldValue.Set(reflect.Zero(s.leaf.field.Type))
	} else {
		fieldValue.Set(reflect.ValueOf(value))
	}
	if s.marker == nil || !s.marker.CanUseHolder(holderPtr) {
		return nil
	}
	if err = s.marker.Set(holderPtr, s.leaf.field.Name, true); err != nil {
		return fmt.Errorf("failed to mark %v as set: %w", s.Path(), err)
	}
	return nil
}

//NewSetter compiles a setter for supplied root-to-leaf property chain
func NewSetter(target reflect.Type, chain []string) (*Setter, error) {
	expr := strings.Join(chain, ".")
	if len(chain) == 0 {
		return nil, parseErrorf(expr, "empty property chain on %v", target)
	}
	var sel selector = &rootSelector{rType: target}
	var err error
	for _, name := range chain {
		if !ast.IsExported(name) {
			return nil, parseErrorf(expr, "only properties are supported, not fields: '%v' is unexported", name)
		}
		if sel, err = propertySelector(expr, sel, name); err != nil {
			return nil, err
		}
	}
	leaf := sel.(*fieldSelector)
	result := &Setter{target: target, chain: chain, leaf: leaf}
	if holderType := ensureStruct(leaf.holder.Type()); holderType != nil {
		if result.marker, err = NewMarker(holderType); err != nil {
			return nil, err
		}
	}
	return result, nil
}
