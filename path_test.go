package fieldmap

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
	"unsafe"
)

func TestExtractPath(t *testing.T) {
	var testCases = []struct {
		description   string
		expr          string
		expectNames   []string
		expectType    reflect.Type
		hasConversion bool
		isMapped      bool
	}{
		{
			description: "single property",
			expr:        "z.Desc",
			expectNames: []string{"Desc"},
			expectType:  reflect.TypeOf(""),
		},
		{
			description: "nested property through pointer holder",
			expr:        "z.Account.AccountNumber",
			expectNames: []string{"AccountNumber", "Account"},
			expectType:  reflect.TypeOf(""),
		},
		{
			description:   "basic type conversion",
			expr:          "int64(z.Age)",
			expectNames:   []string{"Age"},
			expectType:    reflect.TypeOf(int64(0)),
			hasConversion: true,
		},
		{
			description:   "parenthesized conversion",
			expr:          "(float32((z.Score)))",
			expectNames:   []string{"Score"},
			expectType:    reflect.TypeOf(float32(0)),
			hasConversion: true,
		},
		{
			description:   "dereference",
			expr:          "*z.Account",
			expectNames:   []string{"Account"},
			expectType:    reflect.TypeOf(Account{}),
			hasConversion: true,
		},
		{
			description: "map over pointer items",
			expr:        "Map(z.Kids, func(c *Child) string { return c.FirstName })",
			expectNames: []string{"FirstName", "Kids"},
			expectType:  reflect.TypeOf([]string{}),
			isMapped:    true,
		},
		{
			description: "map short form",
			expr:        "Map(z.Kids, func(c) { return c.Age })",
			expectNames: []string{"Age", "Kids"},
			expectType:  reflect.TypeOf([]int{}),
			isMapped:    true,
		},
	}

	rootType := reflect.TypeOf(CustomerResult{})
	for _, testCase := range testCases {
		aPath, err := ExtractPath(rootType, testCase.expr)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expectNames, aPath.Names, testCase.description)
		assert.Equal(t, testCase.expectType, aPath.Type, testCase.description)
		assert.Equal(t, testCase.hasConversion, aPath.HasConversion(), testCase.description)
		assert.Equal(t, testCase.isMapped, aPath.IsMapped(), testCase.description)
		assert.Equal(t, testCase.expectNames[0], aPath.Leaf(), testCase.description)
	}
}

func TestExtractPath_Error(t *testing.T) {
	var testCases = []struct {
		description string
		expr        string
		expectParse bool
		expectText  string
	}{
		{description: "data field", expr: "z.secret", expectParse: true, expectText: "only properties are supported, not fields"},
		{description: "unary", expr: "-z.Age", expectParse: true, expectText: "unary"},
		{description: "address of", expr: "&z.Age", expectParse: true, expectText: "unary"},
		{description: "arbitrary call", expr: "len(z.Desc)", expectParse: true, expectText: "the only supported call"},
		{description: "binary", expr: "z.Age + 1", expectParse: true, expectText: "binary"},
		{description: "index", expr: "z.Kids[0]", expectParse: true, expectText: "index"},
		{description: "literal", expr: "1", expectParse: true, expectText: "literal"},
		{description: "nested conversion", expr: "int64(int32(z.Age))", expectParse: true, expectText: "single conversion"},
		{description: "parenthesized nested conversion", expr: "int64((int32(z.Age)))", expectParse: true, expectText: "single conversion"},
		{description: "conversion of dereference", expr: "int64(*z.Account)", expectParse: true, expectText: "single conversion"},
		{description: "missing property", expr: "z.Missing", expectParse: true, expectText: "does not exist"},
		{description: "non struct holder", expr: "z.Desc.Length", expectParse: true, expectText: "non struct"},
		{description: "invalid syntax", expr: "z.", expectParse: true},
		{description: "map projection with foreign identifier", expr: "Map(z.Kids, func(c *Child) string { return d.FirstName })", expectParse: true, expectText: "unknown identifier"},
		{description: "map over non slice", expr: "Map(z.Account, func(c) { return c.AccountId })", expectParse: true, expectText: "slice"},
		{description: "map projection with statements", expr: "Map(z.Kids, func(c *Child) string { c.Age++; return c.FirstName })", expectParse: true, expectText: "single return"},
		{description: "map projection type mismatch", expr: "Map(z.Kids, func(c Account) string { return c.AccountNumber })"},
		{description: "unsupported conversion", expr: "int64(z.Desc)"},
	}

	rootType := reflect.TypeOf(CustomerResult{})
	for _, testCase := range testCases {
		_, err := ExtractPath(rootType, testCase.expr)
		if !assert.NotNil(t, err, testCase.description) {
			continue
		}
		var parseErr *ParseError
		var mismatchErr *TypeMismatchError
		if testCase.expectParse {
			assert.True(t, errors.As(err, &parseErr), testCase.description)
		} else {
			assert.True(t, errors.As(err, &mismatchErr), testCase.description)
		}
		if testCase.expectText != "" {
			assert.Contains(t, err.Error(), testCase.expectText, testCase.description)
		}
	}
}

func TestExtractPath_Root(t *testing.T) {
	var testCases = []struct {
		description string
		expr        string
		expectType  reflect.Type
	}{
		{description: "bare root", expr: "z", expectType: reflect.TypeOf(CustomerResult{})},
		{description: "parenthesized root", expr: "(z)", expectType: reflect.TypeOf(CustomerResult{})},
	}
	for _, testCase := range testCases {
		aPath, err := ExtractPath(reflect.TypeOf(CustomerResult{}), testCase.expr)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Empty(t, aPath.Names, testCase.description)
		assert.Equal(t, "", aPath.Leaf(), testCase.description)
		assert.Equal(t, testCase.expectType, aPath.Type, testCase.description)
		source := newCustomerResult()
		actual, err := value(aPath.selector, unsafe.Pointer(source))
		if assert.Nil(t, err, testCase.description) {
			assert.Equal(t, *source, actual, testCase.description)
		}
	}
}

func TestPath_Chain(t *testing.T) {
	aPath, err := ExtractPath(reflect.TypeOf(Customer{}), "z.Preference.Hobby")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hobby", "Preference"}, aPath.Names)
	assert.Equal(t, []string{"Preference", "Hobby"}, aPath.Chain())
	assert.Equal(t, "Preference.Hobby", aPath.String())
}

func TestPath_Value(t *testing.T) {
	var testCases = []struct {
		description string
		expr        string
		source      *CustomerResult
		expect      interface{}
		expectError bool
	}{
		{
			description: "nested value",
			expr:        "z.Account.AccountNumber",
			source:      newCustomerResult(),
			expect:      "978654321",
		},
		{
			description: "converted value",
			expr:        "int64(z.Age)",
			source:      newCustomerResult(),
			expect:      int64(73),
		},
		{
			description: "dereferenced value",
			expr:        "*z.Account",
			source:      newCustomerResult(),
			expect:      Account{AccountId: 123, AccountNumber: "978654321"},
		},
		{
			description: "mapped values",
			expr:        "Map(z.Kids, func(c *Child) string { return c.FirstName })",
			source:      &CustomerResult{Kids: []*Child{{FirstName: "Ann"}, {FirstName: "Bob"}}},
			expect:      []string{"Ann", "Bob"},
		},
		{
			description: "nil sequence maps to nil",
			expr:        "Map(z.Kids, func(c *Child) int { return c.Age })",
			source:      &CustomerResult{},
			expect:      []int(nil),
		},
		{
			description: "nil item",
			expr:        "Map(z.Kids, func(c *Child) int { return c.Age })",
			source:      &CustomerResult{Kids: []*Child{nil}},
			expectError: true,
		},
		{
			description: "nil intermediate",
			expr:        "z.Account.AccountId",
			source:      &CustomerResult{},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		aPath, err := ExtractPath(reflect.TypeOf(CustomerResult{}), testCase.expr)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		actual, err := value(aPath.selector, unsafe.Pointer(testCase.source))
		if testCase.expectError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}
