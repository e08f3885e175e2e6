package fieldmap

import (
	"fmt"
	"github.com/viant/tagly/format/text"
	"reflect"
	"unsafe"
)

type (
	//applier applies a single complete field mapping
	applier struct {
		name   string
		getter getter
		setter *Setter
		target getter
		render renderer
	}

	//Performer represents an immutable compiled mapping from S to T
	Performer[S, T any] struct {
		appliers      []*applier
		tag           string
		keyCaseFormat text.CaseFormat
		factory       func() *T
		revision      uint64
	}
)

func (a *applier) apply(source, target unsafe.Pointer) error {
	value, err := a.getter(source)
	if err != nil {
		return &ApplyError{Field: a.setter.Path(), Err: err}
	}
	if err = a.setter.Set(target, value); err != nil {
		return &ApplyError{Field: a.setter.Path(), Err: err}
	}
	return nil
}

func (a *applier) copy(from, to unsafe.Pointer) error {
	value, err := a.target(from)
	if err != nil {
		return &ApplyError{Field: a.setter.Path(), Err: err}
	}
	if err = a.setter.Set(to, value); err != nil {
		return &ApplyError{Field: a.setter.Path(), Err: err}
	}
	return nil
}

func (a *applier) stringify(source, target unsafe.Pointer) (string, error) {
	if err := a.apply(source, target); err != nil {
		return "", err
	}
	value, err := a.target(target)
	if err != nil {
		return "", &ApplyError{Field: a.setter.Path(), Err: err}
	}
	return a.render(value), nil
}

//Fields returns target leaf names in application order
func (p *Performer[S, T]) Fields() []string {
	var result = make([]string, 0, len(p.appliers))
	for _, item := range p.appliers {
		result = append(result, item.name)
	}
	return result
}

//Revision returns mapping set revision the performer was compiled from
func (p *Performer[S, T]) Revision() uint64 {
	return p.revision
}

//Convert creates a new target and applies every field mapping in declaration order
func (p *Performer[S, T]) Convert(source *S) (*T, error) {
	if source == nil {
		return nil, fmt.Errorf("source %v was nil", reflect.TypeOf((*S)(nil)).Elem())
	}
	target := p.newTarget()
	sourcePtr, targetPtr := unsafe.Pointer(source), unsafe.Pointer(target)
	for _, item := range p.appliers {
		if err := item.apply(sourcePtr, targetPtr); err != nil {
			return nil, err
		}
	}
	return target, nil
}

//Copy copies declared fields only, from one target onto another
func (p *Performer[S, T]) Copy(from, to *T) error {
	if from == nil || to == nil {
		return fmt.Errorf("copy %v: from and to have to be non nil", reflect.TypeOf((*T)(nil)).Elem())
	}
	fromPtr, toPtr := unsafe.Pointer(from), unsafe.Pointer(to)
	for _, item := range p.appliers {
		if err := item.copy(fromPtr, toPtr); err != nil {
			return err
		}
	}
	return nil
}

//Stringify converts source and renders every mapped field as tag.Leaf -> text
func (p *Performer[S, T]) Stringify(source *S) (Entries, error) {
	if p.tag == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("can't stringify a field where tag value is not defined for source entity: %v, target entity: %v",
			reflect.TypeOf((*S)(nil)).Elem().Name(), reflect.TypeOf((*T)(nil)).Elem().Name())}
	}
	if source == nil {
		return nil, fmt.Errorf("source %v was nil", reflect.TypeOf((*S)(nil)).Elem())
	}
	target := p.newTarget()
	sourcePtr, targetPtr := unsafe.Pointer(source), unsafe.Pointer(target)
	var result = make(Entries, 0, len(p.appliers))
	for _, item := range p.appliers {
		rendered, err := item.stringify(sourcePtr, targetPtr)
		if err != nil {
			return nil, err
		}
		result = append(result, Entry{Key: p.key(item.name), Value: rendered})
	}
	return result, nil
}

func (p *Performer[S, T]) key(name string) string {
	if p.keyCaseFormat.IsDefined() {
		name = text.CaseFormatUpperCamel.Format(name, p.keyCaseFormat)
	}
	return p.tag + "." + name
}

func (p *Performer[S, T]) newTarget() *T {
	if p.factory != nil {
		if target := p.factory(); target != nil {
			return target
		}
	}
	return new(T)
}

func newPerformer[S, T any](entries []fieldMapping, revision uint64, opts *options, factory func() *T) (*Performer[S, T], error) {
	result := &Performer[S, T]{
		appliers:      make([]*applier, 0, len(entries)),
		tag:           opts.tag,
		keyCaseFormat: opts.keyCaseFormat,
		factory:       factory,
		revision:      revision,
	}
	for _, entry := range entries {
		item, err := entry.compile()
		if err != nil {
			return nil, err
		}
		result.appliers = append(result.appliers, item)
	}
	return result, nil
}
