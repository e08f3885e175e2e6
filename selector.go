package fieldmap

import (
	"fmt"
	"github.com/viant/xunsafe"
	"reflect"
	"unsafe"
)

type (
	//selector resolves a pointer to a value of Type() from a root pointer
	selector interface {
		Type() reflect.Type
		pointer(root unsafe.Pointer) (unsafe.Pointer, error)
	}

	rootSelector struct {
		rType reflect.Type
	}

	fieldSelector struct {
		holder selector
		field  *xunsafe.Field
		tag    reflect.StructTag
		//isPtr holder has to be dereferenced before field access
		isPtr bool
	}

	convertSelector struct {
		operand selector
		rType   reflect.Type
	}

	derefSelector struct {
		operand selector
	}

	mapSelector struct {
		sequence   selector
		slice      *xunsafe.Slice
		projection selector
		rType      reflect.Type
	}
)

func (s *rootSelector) Type() reflect.Type {
	return s.rType
}

func (s *rootSelector) pointer(root unsafe.Pointer) (unsafe.Pointer, error) {
	return root, nil
}

func (s *fieldSelector) Type() reflect.Type {
	return s.field.Type
}

func (s *fieldSelector) pointer(root unsafe.Pointer) (unsafe.Pointer, error) {
	ptr, err := s.holder.pointer(root)
	if err != nil {
		return nil, err
	}
	if s.isPtr {
		if ptr = xunsafe.DerefPointer(ptr); ptr == nil {
			return nil, fmt.Errorf("nil %v holder of %v", s.holder.Type(), s.field.Name)
		}
	}
	return s.field.Pointer(ptr), nil
}

func (s *convertSelector) Type() reflect.Type {
	return s.rType
}

func (s *convertSelector) pointer(root unsafe.Pointer) (unsafe.Pointer, error) {
	ptr, err := s.operand.pointer(root)
	if err != nil {
		return nil, err
	}
	value := reflect.NewAt(s.operand.Type(), ptr).Elem().Convert(s.rType)
	ret := reflect.New(s.rType)
	ret.Elem().Set(value)
	return ret.UnsafePointer(), nil
}

func (s *derefSelector) Type() reflect.Type {
	return s.operand.Type().Elem()
}

func (s *derefSelector) pointer(root unsafe.Pointer) (unsafe.Pointer, error) {
	ptr, err := s.operand.pointer(root)
	if err != nil {
		return nil, err
	}
	if ptr = xunsafe.DerefPointer(ptr); ptr == nil {
		return nil, fmt.Errorf("nil %v dereference", s.operand.Type())
	}
	return ptr, nil
}

func (s *mapSelector) Type() reflect.Type {
	return s.rType
}

func (s *mapSelector) pointer(root unsafe.Pointer) (unsafe.Pointer, error) {
	seqPtr, err := s.sequence.pointer(root)
	if err != nil {
		return nil, err
	}
	ret := reflect.New(s.rType)
	if reflect.NewAt(s.sequence.Type(), seqPtr).Elem().IsNil() {
		return ret.UnsafePointer(), nil
	}
	itemType := s.projection.Type()
	length := s.slice.Len(seqPtr)
	items := reflect.MakeSlice(s.rType, length, length)
	for i := 0; i < length; i++ {
		itemPtr := s.slice.PointerAt(seqPtr, uintptr(i))
		valuePtr, err := s.projection.pointer(itemPtr)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		items.Index(i).Set(reflect.NewAt(itemType, valuePtr).Elem())
	}
	ret.Elem().Set(items)
	return ret.UnsafePointer(), nil
}

//value returns a copy of the value selected from root
func value(sel selector, root unsafe.Pointer) (interface{}, error) {
	ptr, err := sel.pointer(root)
	if err != nil {
		return nil, err
	}
	return reflect.NewAt(sel.Type(), ptr).Elem().Interface(), nil
}
