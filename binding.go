package fieldmap

import (
	"fmt"
	"reflect"
)

type (
	//SourceBinding represents a field mapping where only From() has been defined
	SourceBinding[S, T any] struct {
		definition *Definition[S, T]
		id         int
		state      *sourceOnly
		final      *CompleteBinding[S, T]
	}

	//TransformedBinding represents a field mapping defined with From() and Then()
	TransformedBinding[S, T any] struct {
		definition *Definition[S, T]
		id         int
		state      *transformed
		final      *CompleteBinding[S, T]
	}

	//CompleteBinding represents a field mapping with both source value and target path bound
	CompleteBinding[S, T any] struct {
		definition *Definition[S, T]
		id         int
		state      *complete
	}
)

//To links a target field, i.e. "z.Preference.Hobby"; field type has to match From() value type
func (b *SourceBinding[S, T]) To(targetExpr string) (*CompleteBinding[S, T], error) {
	state, err := newComplete(b.definition.targetType, b.state.expr, b.state.getter, b.state.valueType, targetExpr)
	if err != nil {
		return nil, err
	}
	b.final = b.definition.complete(b.id, state)
	return b.final, nil
}

//Then applies transformation func(A) B or func(A) (B, error) to From() value
func (b *SourceBinding[S, T]) Then(transform interface{}) (*TransformedBinding[S, T], error) {
	state, err := newTransformed(b.state.expr, b.state.getter, b.state.valueType, transform)
	if err != nil {
		return nil, err
	}
	b.final = nil
	b.definition.set.replace(b.id, state)
	return &TransformedBinding[S, T]{definition: b.definition, id: b.id, state: state}, nil
}

//Stringify sets field renderer, it requires To() to be called on this binding first
func (b *SourceBinding[S, T]) Stringify(fn interface{}) (*CompleteBinding[S, T], error) {
	if b.final == nil {
		return nil, &StateError{Message: "can't stringify a field where only From() has been defined, chain a call to To() or Then() first"}
	}
	return b.final.Stringify(fn)
}

//ValueType returns From() value type
func (b *SourceBinding[S, T]) ValueType() reflect.Type {
	return b.state.valueType
}

//To links a target field matching Then() result type
func (b *TransformedBinding[S, T]) To(targetExpr string) (*CompleteBinding[S, T], error) {
	state, err := newComplete(b.definition.targetType, b.state.expr, b.state.getter, b.state.valueType, targetExpr)
	if err != nil {
		return nil, err
	}
	if !b.definition.set.swap(b.id, b.state, state) {
		return nil, superseded(b.state.expr)
	}
	b.final = &CompleteBinding[S, T]{definition: b.definition, id: b.id, state: state}
	return b.final, nil
}

//Stringify sets field renderer, it requires To() to be called on this binding first
func (b *TransformedBinding[S, T]) Stringify(fn interface{}) (*CompleteBinding[S, T], error) {
	if b.final == nil {
		return nil, &StateError{Message: "can't stringify a field where only From() and Then() have been defined, chain a call to To() first"}
	}
	return b.final.Stringify(fn)
}

//ValueType returns Then() result type
func (b *TransformedBinding[S, T]) ValueType() reflect.Type {
	return b.state.valueType
}

//Stringify sets func(V) string rendering the target field for Definition.Stringify,
//a binding redefined by a later Then() or To() on the same From() returns StateError
func (b *CompleteBinding[S, T]) Stringify(fn interface{}) (*CompleteBinding[S, T], error) {
	render, err := newRenderer(b.state.target.Expr, b.state.target.Type, fn)
	if err != nil {
		return nil, err
	}
	state := b.state.withRender(render)
	if !b.definition.set.swap(b.id, b.state, state) {
		return nil, superseded(b.state.expr)
	}
	b.state = state
	return b, nil
}

//Target returns target accessor path
func (b *CompleteBinding[S, T]) Target() *Path {
	return b.state.target
}

func superseded(expr string) error {
	return &StateError{Message: fmt.Sprintf("mapping from %v has been redefined by a later Then() or To() call, use the binding it returned", expr)}
}
