package fieldmap

import (
	"fmt"
	"github.com/viant/xunsafe"
	"reflect"
	"unsafe"
)

//Marker flags target fields assigned by a mapping, when the target struct declares a
//presence holder, i.e.
//
//	type Customer struct {
//		Name string
//		Has  *CustomerHas `setMarker:"true"`
//	}
type Marker struct {
	t      reflect.Type
	holder *xunsafe.Field
	fields map[string]*xunsafe.Field
}

//Set sets field flag, holder pointer has to be allocated by the caller
func (m *Marker) Set(ptr unsafe.Pointer, name string, flag bool) error {
	if !m.CanUseHolder(ptr) {
		return fmt.Errorf("marker holder was empty for %v", m.t)
	}
	field, ok := m.fields[name]
	if !ok {
		return fmt.Errorf("field %v was missing in set marker %v", name, m.holder.Type)
	}
	field.SetBool(xunsafe.DerefPointer(m.holder.Pointer(ptr)), flag)
	return nil
}

//IsSet returns true if field has been flagged, without holder all fields are assumed set
func (m *Marker) IsSet(ptr unsafe.Pointer, name string) bool {
	if !m.CanUseHolder(ptr) {
		return true
	}
	field, ok := m.fields[name]
	if !ok {
		return false
	}
	return field.Bool(xunsafe.DerefPointer(m.holder.Pointer(ptr)))
}

//CanUseHolder returns true if marker holder is allocated
func (m *Marker) CanUseHolder(ptr unsafe.Pointer) bool {
	return m.holder != nil && xunsafe.DerefPointer(m.holder.Pointer(ptr)) != nil
}

//NewMarker returns a marker for supplied struct, or nil if struct does not declare one
func NewMarker(t reflect.Type) (*Marker, error) {
	if t = ensureStruct(t); t == nil {
		return nil, fmt.Errorf("supplied type is not struct")
	}
	var holder *reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if IsSetMarker(field.Tag) {
			holder = &field
			break
		}
	}
	if holder == nil {
		return nil, nil
	}
	holderType := holder.Type
	if holderType.Kind() != reflect.Ptr || holderType.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("marker %v.%v has to be a pointer to struct, but had %v", t.Name(), holder.Name, holderType)
	}
	result := &Marker{t: t, holder: xunsafe.NewField(*holder), fields: map[string]*xunsafe.Field{}}
	markerType := holderType.Elem()
	for i := 0; i < markerType.NumField(); i++ {
		markerField := markerType.Field(i)
		if markerField.Type.Kind() != reflect.Bool {
			continue
		}
		if _, ok := t.FieldByName(markerField.Name); !ok {
			return nil, fmt.Errorf("marker field: '%v' does not have corresponding struct field", markerField.Name)
		}
		result.fields[markerField.Name] = xunsafe.NewField(markerField)
	}
	return result, nil
}
