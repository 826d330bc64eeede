// Package filter translates AIP-160 instance filters into SQL conditions.
//
// Supported fields are suite (string) and function, instance, and dimension
// (integers). Comparisons combine with AND, OR, and NOT:
//
//	suite = "bbob" AND function = 3 AND dimension >= 10
package filter

import (
	"errors"
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ErrInvalidFilter wraps every parse and translation failure.
var ErrInvalidFilter = errors.New("invalid filter")

// Condition is a SQL WHERE fragment with positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches every row.
func (c Condition) Empty() bool {
	return c.Clause == ""
}

var columns = map[string]string{
	"suite":     "suite",
	"function":  "function_id",
	"instance":  "instance_id",
	"dimension": "dimension",
}

// Declarations returns the identifiers an instance filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("suite", filtering.TypeString),
		filtering.DeclareIdent("function", filtering.TypeInt),
		filtering.DeclareIdent("instance", filtering.TypeInt),
		filtering.DeclareIdent("dimension", filtering.TypeInt),
	)
}

// Parse translates filter into a SQL condition. An empty filter yields an
// empty condition.
func Parse(filter string) (Condition, error) {
	if strings.TrimSpace(filter) == "" {
		return Condition{}, nil
	}
	decls, err := Declarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	cond, err := translate(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return cond, nil
}

func translate(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, errors.New("nil expression")
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return Condition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	switch fn := call.CallExpr.Function; fn {
	case "_&&_", "AND":
		return join("AND", call.CallExpr.Args)
	case "_||_", "OR":
		return join("OR", call.CallExpr.Args)
	case "NOT":
		if len(call.CallExpr.Args) != 1 {
			return Condition{}, errors.New("NOT requires 1 argument")
		}
		inner, err := translate(call.CallExpr.Args[0])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	case "_==_", "=":
		return compare(call.CallExpr.Args, "=")
	case "_!=_", "!=":
		return compare(call.CallExpr.Args, "!=")
	case "_<_", "<":
		return compare(call.CallExpr.Args, "<")
	case "_<=_", "<=":
		return compare(call.CallExpr.Args, "<=")
	case "_>_", ">":
		return compare(call.CallExpr.Args, ">")
	case "_>=_", ">=":
		return compare(call.CallExpr.Args, ">=")
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", fn)
	}
}

func join(op string, args []*expr.Expr) (Condition, error) {
	if len(args) < 2 {
		return Condition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := translate(arg)
		if err != nil {
			return Condition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return Condition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func compare(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, errors.New("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return Condition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	column, ok := columns[ident.IdentExpr.GetName()]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := constant(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func constant(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return strings.ToLower(kind.StringValue), nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
