package fieldmap

import (
	"reflect"
	"sync"
	"sync/atomic"
)

type (
	//Definition describes a mapping from S to T, declared with From/Then/To/Stringify
	//and compiled lazily into a Performer on first use
	Definition[S, T any] struct {
		sourceType reflect.Type
		targetType reflect.Type
		options    options
		set        *mappingSet
		factory    func() *T
		performer  atomic.Pointer[Performer[S, T]]
	}

	typePair struct {
		source reflect.Type
		target reflect.Type
	}
)

//guards holds compile guard per source/target type pair
var guards sync.Map

func guard(pair typePair) *sync.Mutex {
	mux, _ := guards.LoadOrStore(pair, &sync.Mutex{})
	return mux.(*sync.Mutex)
}

//New creates a mapping definition from S to T
func New[S, T any](opts ...Option) *Definition[S, T] {
	ret := &Definition[S, T]{
		sourceType: reflect.TypeOf((*S)(nil)).Elem(),
		targetType: reflect.TypeOf((*T)(nil)).Elem(),
		set:        &mappingSet{},
	}
	ret.options.apply(opts)
	return ret
}

//Tag returns stringify key prefix
func (d *Definition[S, T]) Tag() string {
	return d.options.tag
}

//Factory sets target constructor used by Convert and Stringify; targets with pointer
//sub-objects referenced by To() paths have to be pre-populated by the factory
func (d *Definition[S, T]) Factory(fn func() *T) *Definition[S, T] {
	d.factory = fn
	d.set.touch()
	return d
}

//From begins a field mapping with a source accessor, i.e. "z.Account.AccountNumber";
//To() or Then() has to be chained on the result
func (d *Definition[S, T]) From(sourceExpr string) (*SourceBinding[S, T], error) {
	state, err := newSourceOnly(d.sourceType, sourceExpr)
	if err != nil {
		return nil, err
	}
	id := d.set.add(state)
	return &SourceBinding[S, T]{definition: d, id: id, state: state}, nil
}

func (d *Definition[S, T]) complete(id int, state *complete) *CompleteBinding[S, T] {
	d.set.replace(id, state)
	return &CompleteBinding[S, T]{definition: d, id: id, state: state}
}

//Convert creates a new T from source
func (d *Definition[S, T]) Convert(source *S) (*T, error) {
	performer, err := d.Performer()
	if err != nil {
		return nil, err
	}
	return performer.Convert(source)
}

//Copy copies declared fields only from one target onto another, other fields are left untouched
func (d *Definition[S, T]) Copy(from, to *T) error {
	performer, err := d.Performer()
	if err != nil {
		return err
	}
	return performer.Copy(from, to)
}

//Stringify converts source and returns tag.Leaf -> text entries in declaration order
func (d *Definition[S, T]) Stringify(source *S) (Entries, error) {
	performer, err := d.Performer()
	if err != nil {
		return nil, err
	}
	return performer.Stringify(source)
}

//Performer returns compiled performer, recompiling it when declarations changed since last compile
func (d *Definition[S, T]) Performer() (*Performer[S, T], error) {
	if performer := d.performer.Load(); !d.isStale(performer) {
		return performer, nil
	}
	mux := guard(typePair{source: d.sourceType, target: d.targetType})
	mux.Lock()
	defer mux.Unlock()
	if performer := d.performer.Load(); !d.isStale(performer) {
		return performer, nil
	}
	entries, revision := d.set.snapshot()
	performer, err := newPerformer[S, T](entries, revision, &d.options, d.factory)
	if err != nil {
		return nil, err
	}
	d.performer.Store(performer)
	d.options.logger.Debug("compiled mapping performer",
		"source", d.sourceType.String(),
		"target", d.targetType.String(),
		"fields", len(performer.appliers),
		"revision", revision)
	return performer, nil
}

func (d *Definition[S, T]) isStale(performer *Performer[S, T]) bool {
	return performer == nil || performer.revision != d.set.version()
}
