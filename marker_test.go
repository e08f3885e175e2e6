package fieldmap

import (
	"github.com/stretchr/testify/assert"
	"github.com/viant/xunsafe"
	"reflect"
	"testing"
)

func TestMarker_IsSet(t *testing.T) {

	var testCases = []struct {
		description string
		provider    func() interface{}
		expectSet   []string
		expectUnset []string
		expectNil   bool
		expectError bool
	}{
		{
			description: "aligned set marker",
			provider: func() interface{} {
				type CustomerHas struct {
					Name   bool
					Age    bool
					Mobile bool
				}
				type Customer struct {
					Name   string
					Age    int
					Mobile string
					Has    *CustomerHas `setMarker:"true"`
				}
				return &Customer{Has: &CustomerHas{Name: true, Mobile: true}, Name: "Joe", Mobile: "0455467568"}
			},
			expectSet:   []string{"Name", "Mobile"},
			expectUnset: []string{"Age"},
		},
		{
			description: "presence marker tag with more fields in the owner struct",
			provider: func() interface{} {
				type CustomerHas struct {
					Name bool
					Age  bool
				}
				type Customer struct {
					Name     string
					Age      int
					Children []Child
					Has      *CustomerHas `presenceMarker:"true"`
				}
				return &Customer{Has: &CustomerHas{Age: true}, Age: 73}
			},
			expectSet:   []string{"Age"},
			expectUnset: []string{"Name"},
		},
		{
			description: "legacy presence tag",
			provider: func() interface{} {
				type CustomerHas struct {
					Name bool
				}
				type Customer struct {
					Name string
					Has  *CustomerHas `sqlx:"presence=true"`
				}
				return &Customer{Has: &CustomerHas{Name: true}}
			},
			expectSet: []string{"Name"},
		},
		{
			description: "marker field without corresponding struct field",
			provider: func() interface{} {
				type CustomerHas struct {
					Name   bool
					Loyalt bool
				}
				type Customer struct {
					Name string
					Has  *CustomerHas `setMarker:"true"`
				}
				return &Customer{}
			},
			expectError: true,
		},
		{
			description: "marker holder is not a struct pointer",
			provider: func() interface{} {
				type Customer struct {
					Name string
					Has  bool `setMarker:"true"`
				}
				return &Customer{}
			},
			expectError: true,
		},
		{
			description: "no marker",
			provider: func() interface{} {
				return &Customer{}
			},
			expectNil: true,
		},
	}

	for _, testCase := range testCases {
		value := testCase.provider()
		marker, err := NewMarker(reflect.TypeOf(value))

		if testCase.expectError {
			assert.NotNilf(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		if testCase.expectNil {
			assert.Nil(t, marker, testCase.description)
			continue
		}
		valuePtr := xunsafe.AsPointer(value)
		for _, name := range testCase.expectSet {
			assert.True(t, marker.IsSet(valuePtr, name), name+" failed set test for "+testCase.description)
		}
		for _, name := range testCase.expectUnset {
			assert.False(t, marker.IsSet(valuePtr, name), name+" failed unset test for "+testCase.description)
		}
	}
}

func TestMarker_Set(t *testing.T) {
	type CustomerHas struct {
		Name bool
		Age  bool
	}
	type Customer struct {
		Name string
		Age  int
		Has  *CustomerHas `setMarker:"true"`
	}
	marker, err := NewMarker(reflect.TypeOf(Customer{}))
	if !assert.Nil(t, err) {
		return
	}
	customer := &Customer{}
	ptr := xunsafe.AsPointer(customer)
	assert.False(t, marker.CanUseHolder(ptr))
	assert.NotNil(t, marker.Set(ptr, "Name", true))
	assert.True(t, marker.IsSet(ptr, "Name"), "all fields are assumed set without holder")

	customer.Has = &CustomerHas{}
	assert.Nil(t, marker.Set(ptr, "Age", true))
	assert.True(t, customer.Has.Age)
	assert.False(t, marker.IsSet(ptr, "Name"))
	assert.NotNil(t, marker.Set(ptr, "Mobile", true))
}
