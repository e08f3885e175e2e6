package manifest

import (
	"fmt"
	"github.com/viant/fieldmap"
	"github.com/viant/tagly/format/text"
	"gopkg.in/yaml.v3"
	"os"
)

type (
	//Manifest represents a mapping declaration
	//
	//	tag: Customer
	//	fields:
	//	  - from: z.YearsWithUs
	//	    then: loyalty
	//	    to: z.Loyalty
	Manifest struct {
		Tag     string  `yaml:"tag,omitempty"`
		KeyCase string  `yaml:"keyCase,omitempty"`
		Fields  []Field `yaml:"fields"`
	}

	//Field represents a single From/Then/To/Stringify declaration
	Field struct {
		From      string `yaml:"from"`
		Then      string `yaml:"then,omitempty"`
		To        string `yaml:"to"`
		Stringify string `yaml:"stringify,omitempty"`
	}

	//Funcs holds named transform and stringify functions
	Funcs map[string]interface{}
)

//Validate checks required attributes
func (m *Manifest) Validate() error {
	if len(m.Fields) == 0 {
		return fmt.Errorf("manifest has no fields")
	}
	for i, field := range m.Fields {
		if field.From == "" {
			return fmt.Errorf("fields[%d]: from was empty", i)
		}
		if field.To == "" {
			return fmt.Errorf("fields[%d]: to was empty for %v", i, field.From)
		}
	}
	return nil
}

func (f Funcs) lookup(name string) (interface{}, error) {
	fn, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("func %v was not registered", name)
	}
	return fn, nil
}

//Parse parses YAML manifest
func Parse(data []byte) (*Manifest, error) {
	var ret Manifest
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to parse mapping manifest: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

//ParseFile reads and parses YAML manifest
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping manifest %s: %w", path, err)
	}
	return Parse(data)
}

//Marshal serializes manifest to YAML
func Marshal(m *Manifest) ([]byte, error) {
	return yaml.Marshal(m)
}

//Build declares every manifest field on a new definition, opts take precedence over manifest attributes
func Build[S, T any](m *Manifest, funcs Funcs, opts ...fieldmap.Option) (*fieldmap.Definition[S, T], error) {
	var options []fieldmap.Option
	if m.Tag != "" {
		options = append(options, fieldmap.WithTag(m.Tag))
	}
	if m.KeyCase != "" {
		options = append(options, fieldmap.WithKeyCaseFormat(text.CaseFormat(m.KeyCase)))
	}
	ret := fieldmap.New[S, T](append(options, opts...)...)
	for i, field := range m.Fields {
		if err := declare(ret, field, funcs); err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
	}
	return ret, nil
}

//Load parses YAML manifest and builds a definition
func Load[S, T any](data []byte, funcs Funcs, opts ...fieldmap.Option) (*fieldmap.Definition[S, T], error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build[S, T](m, funcs, opts...)
}

//LoadFile reads YAML manifest and builds a definition
func LoadFile[S, T any](path string, funcs Funcs, opts ...fieldmap.Option) (*fieldmap.Definition[S, T], error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build[S, T](m, funcs, opts...)
}

func declare[S, T any](definition *fieldmap.Definition[S, T], field Field, funcs Funcs) error {
	source, err := definition.From(field.From)
	if err != nil {
		return err
	}
	var final *fieldmap.CompleteBinding[S, T]
	if field.Then == "" {
		if final, err = source.To(field.To); err != nil {
			return err
		}
	} else {
		transform, err := funcs.lookup(field.Then)
		if err != nil {
			return err
		}
		transformed, err := source.Then(transform)
		if err != nil {
			return err
		}
		if final, err = transformed.To(field.To); err != nil {
			return err
		}
	}
	if field.Stringify == "" {
		return nil
	}
	render, err := funcs.lookup(field.Stringify)
	if err != nil {
		return err
	}
	_, err = final.Stringify(render)
	return err
}
