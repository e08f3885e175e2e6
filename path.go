package fieldmap

import (
	"github.com/viant/xunsafe"
	"go/ast"
	"go/parser"
	"reflect"
	"strings"
)

//MapFunc is the only call recognized in accessor expressions: Map(sequence, func(item T) R { return item.Path })
const MapFunc = "Map"

type (
	//Path represents an accessor path extracted from an expression
	Path struct {
		Expr string
		//Root represents the type the expression was parsed against
		Root reflect.Type
		//Names holds property names in leaf-to-root order
		Names []string
		//Type represents the accessor result type
		Type        reflect.Type
		conversions int
		mapped      bool
		selector    selector
	}

	//scope binds an identifier to its root type
	scope struct {
		symbol string
		rType  reflect.Type
		//projection scope requires identifier to match symbol
		projection bool
	}

	extractor struct {
		expr        string
		names       []string
		root        string
		rootType    reflect.Type
		conversions int
		mapped      bool
	}
)

//Chain returns property names in root-to-leaf order
func (p *Path) Chain() []string {
	var result = make([]string, len(p.Names))
	for i, name := range p.Names {
		result[len(p.Names)-1-i] = name
	}
	return result
}

//Leaf returns the leaf property name
func (p *Path) Leaf() string {
	if len(p.Names) == 0 {
		return ""
	}
	return p.Names[0]
}

//HasConversion returns true if expression contains a conversion wrapper
func (p *Path) HasConversion() bool {
	return p.conversions > 0
}

//IsMapped returns true if expression contains a Map call
func (p *Path) IsMapped() bool {
	return p.mapped
}

//String returns dotted root-to-leaf path
func (p *Path) String() string {
	return strings.Join(p.Chain(), ".")
}

//ExtractPath parses accessor expression against supplied root type
func ExtractPath(root reflect.Type, expr string) (*Path, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, parseErrorf(expr, "%v", err)
	}
	e := &extractor{expr: expr, rootType: root}
	sel, err := e.visit(node, &scope{rType: root}, false)
	if err != nil {
		return nil, err
	}
	return &Path{
		Expr:        expr,
		Root:        root,
		Names:       e.names,
		Type:        sel.Type(),
		conversions: e.conversions,
		mapped:      e.mapped,
		selector:    sel,
	}, nil
}

func (e *extractor) visit(node ast.Expr, s *scope, reentrant bool) (selector, error) {
	if !reentrant {
		e.names = nil
		e.conversions = 0
		e.mapped = false
	}
	switch actual := node.(type) {
	case *ast.Ident:
		return e.visitRoot(actual, s)
	case *ast.ParenExpr:
		return e.visit(actual.X, s, true)
	case *ast.StarExpr:
		return e.visitDeref(actual, s)
	case *ast.UnaryExpr:
		return nil, parseErrorf(e.expr, "unary expressions of kind '%v' are not supported", actual.Op)
	case *ast.SelectorExpr:
		return e.visitProperty(actual, s)
	case *ast.CallExpr:
		if ident, ok := actual.Fun.(*ast.Ident); ok {
			if rType, ok := basicTypes[ident.Name]; ok {
				return e.visitConversion(actual, rType, s)
			}
			if ident.Name == MapFunc {
				return e.visitMap(actual, s)
			}
		}
		return nil, parseErrorf(e.expr, "the only supported call is %v(sequence, func(item) { return item.Field })", MapFunc)
	}
	return nil, parseErrorf(e.expr, "%v expressions are not supported", nodeKind(node))
}

func (e *extractor) visitRoot(ident *ast.Ident, s *scope) (selector, error) {
	switch {
	case s.projection:
		if ident.Name != s.symbol {
			return nil, parseErrorf(e.expr, "unknown identifier '%v', expected projection parameter '%v'", ident.Name, s.symbol)
		}
	case e.root == "":
		e.root = ident.Name
	case e.root != ident.Name:
		return nil, parseErrorf(e.expr, "unknown identifier '%v', expected root '%v'", ident.Name, e.root)
	}
	return &rootSelector{rType: s.rType}, nil
}

func (e *extractor) visitDeref(star *ast.StarExpr, s *scope) (selector, error) {
	e.conversions++
	operand, err := e.visit(star.X, s, true)
	if err != nil {
		return nil, err
	}
	if err = e.checkSingleConversion(operand); err != nil {
		return nil, err
	}
	if operand.Type().Kind() != reflect.Ptr {
		return nil, parseErrorf(e.expr, "cannot dereference non pointer %v", operand.Type())
	}
	return &derefSelector{operand: operand}, nil
}

func (e *extractor) visitConversion(call *ast.CallExpr, rType reflect.Type, s *scope) (selector, error) {
	if len(call.Args) != 1 {
		return nil, parseErrorf(e.expr, "conversion to %v expects 1 argument, but had %v", rType, len(call.Args))
	}
	e.conversions++
	operand, err := e.visit(call.Args[0], s, true)
	if err != nil {
		return nil, err
	}
	if err = e.checkSingleConversion(operand); err != nil {
		return nil, err
	}
	if !operand.Type().ConvertibleTo(rType) {
		return nil, &TypeMismatchError{Expr: e.expr, Expected: rType, Actual: operand.Type(), Message: "conversion is not supported"}
	}
	return &convertSelector{operand: operand, rType: rType}, nil
}

//checkSingleConversion rejects a conversion wrapping another conversion
func (e *extractor) checkSingleConversion(operand selector) error {
	switch operand.(type) {
	case *convertSelector, *derefSelector:
		return parseErrorf(e.expr, "only a single conversion is supported on an operand")
	}
	return nil
}

func (e *extractor) visitProperty(expr *ast.SelectorExpr, s *scope) (selector, error) {
	name := expr.Sel.Name
	if !ast.IsExported(name) {
		return nil, parseErrorf(e.expr, "only properties are supported, not fields: '%v' is unexported", name)
	}
	e.names = append(e.names, name)
	holder, err := e.visit(expr.X, s, true)
	if err != nil {
		return nil, err
	}
	return propertySelector(e.expr, holder, name)
}

//propertySelector returns selector of the named property on holder value
func propertySelector(expr string, holder selector, name string) (selector, error) {
	holderType := holder.Type()
	structType := holderType
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, parseErrorf(expr, "cannot access '%v' on non struct type %v", name, holderType)
	}
	field, ok := structType.FieldByName(name)
	if !ok {
		return nil, parseErrorf(expr, "property '%v' does not exist on %v", name, structType)
	}
	result := holder
	current := structType
	for i, index := range field.Index {
		structField := current.Field(index)
		isPtr := result.Type().Kind() == reflect.Ptr
		result = &fieldSelector{holder: result, field: xunsafe.NewField(structField), tag: structField.Tag, isPtr: isPtr}
		if i < len(field.Index)-1 {
			current = structField.Type
			if current.Kind() == reflect.Ptr {
				current = current.Elem()
			}
		}
	}
	return result, nil
}

//visitMap visits projection body first, then the sequence
func (e *extractor) visitMap(call *ast.CallExpr, s *scope) (selector, error) {
	if len(call.Args) != 2 {
		return nil, parseErrorf(e.expr, "%v expects 2 arguments, but had %v", MapFunc, len(call.Args))
	}
	projection, ok := call.Args[1].(*ast.FuncLit)
	if !ok {
		return nil, parseErrorf(e.expr, "the only supported argument to %v() is a function literal, but had %v", MapFunc, nodeKind(call.Args[1]))
	}
	symbol, body, err := e.projection(projection)
	if err != nil {
		return nil, err
	}
	e.mapped = true
	//resolve sequence type without recording names
	probe := &extractor{expr: e.expr, root: e.root, rootType: e.rootType}
	probeSequence, err := probe.visit(call.Args[0], s, false)
	if err != nil {
		return nil, err
	}
	sliceType := probeSequence.Type()
	if sliceType.Kind() != reflect.Slice {
		return nil, parseErrorf(e.expr, "%v() expects a slice sequence, but had %v", MapFunc, sliceType)
	}
	if err = e.checkItemType(projection, sliceType.Elem()); err != nil {
		return nil, err
	}
	item, err := e.visit(body, &scope{symbol: symbol, rType: sliceType.Elem(), projection: true}, true)
	if err != nil {
		return nil, err
	}
	sequence, err := e.visit(call.Args[0], s, true)
	if err != nil {
		return nil, err
	}
	return &mapSelector{
		sequence:   sequence,
		slice:      xunsafe.NewSlice(sliceType),
		projection: item,
		rType:      reflect.SliceOf(item.Type()),
	}, nil
}

func (e *extractor) projection(fn *ast.FuncLit) (string, ast.Expr, error) {
	params := fn.Type.Params
	if params == nil || len(params.List) != 1 || len(params.List[0].Names) > 1 {
		return "", nil, parseErrorf(e.expr, "%v() projection expects exactly one parameter", MapFunc)
	}
	param := params.List[0]
	var symbol string
	if len(param.Names) == 1 {
		symbol = param.Names[0].Name
	} else if ident, ok := param.Type.(*ast.Ident); ok {
		//short form: func(item) { return item.Field }
		symbol = ident.Name
	} else {
		return "", nil, parseErrorf(e.expr, "%v() projection parameter has to be named", MapFunc)
	}
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return "", nil, parseErrorf(e.expr, "%v() projection has to be a single return statement", MapFunc)
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return "", nil, parseErrorf(e.expr, "%v() projection has to return exactly one value", MapFunc)
	}
	return symbol, ret.Results[0], nil
}

//checkItemType compares declared projection parameter type name with sequence item type
func (e *extractor) checkItemType(fn *ast.FuncLit, itemType reflect.Type) error {
	param := fn.Type.Params.List[0]
	if len(param.Names) == 0 {
		return nil
	}
	declared := typeName(param.Type)
	prefix := ""
	base := itemType
	for base.Kind() == reflect.Ptr {
		prefix += "*"
		base = base.Elem()
	}
	if base.Name() == "" || declared == "" {
		return nil
	}
	if actual := prefix + base.Name(); declared != actual {
		return &TypeMismatchError{Expr: e.expr, Actual: itemType, Message: "projection parameter declared as " + declared}
	}
	return nil
}

func typeName(expr ast.Expr) string {
	switch actual := expr.(type) {
	case *ast.Ident:
		return actual.Name
	case *ast.StarExpr:
		return "*" + typeName(actual.X)
	case *ast.SelectorExpr:
		return actual.Sel.Name
	case *ast.ArrayType:
		return "[]" + typeName(actual.Elt)
	}
	return ""
}

func nodeKind(node ast.Expr) string {
	switch actual := node.(type) {
	case *ast.BasicLit:
		return "literal " + strings.ToLower(actual.Kind.String())
	case *ast.BinaryExpr:
		return "binary '" + actual.Op.String() + "'"
	case *ast.IndexExpr, *ast.IndexListExpr:
		return "index"
	case *ast.SliceExpr:
		return "slice"
	case *ast.CompositeLit:
		return "composite literal"
	case *ast.FuncLit:
		return "function literal"
	case *ast.TypeAssertExpr:
		return "type assertion"
	case *ast.KeyValueExpr:
		return "key value"
	}
	return strings.TrimPrefix(reflect.TypeOf(node).String(), "*ast.")
}

