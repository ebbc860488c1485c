package jsondoc

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query evaluates an expr-lang expression against v and returns the result
// as a Value. The whole document is bound to doc, and when v is an object
// each of its keys is also bound by name, so `doc.user.age` and `user.age`
// read the same field.
func Query(v Value, expression string) (Value, error) {
	program, err := compileQuery(expression)
	if err != nil {
		return Value{}, err
	}

	env := queryEnv(v)
	out, err := expr.Run(program, env)
	if err != nil {
		return Value{}, &JsonsError{
			Op:      "query",
			Path:    expression,
			Message: "expression evaluation failed",
			Err:     fmt.Errorf("%w: %v", ErrOperationFailed, err),
		}
	}

	result, err := ValueOf(out)
	if err != nil {
		return Value{}, &JsonsError{
			Op:      "query",
			Path:    expression,
			Message: fmt.Sprintf("result of type %T cannot be represented", out),
			Err:     err,
		}
	}
	return result, nil
}

// Filter returns the elements of a for which predicate is true. The element
// is bound to it and its position to index.
func Filter(a Array, predicate string) (Array, error) {
	program, err := compileQuery(predicate)
	if err != nil {
		return Array{}, err
	}

	var out Array
	for i, item := range a.All() {
		res, err := expr.Run(program, map[string]any{"it": item.Interface(), "index": i})
		if err != nil {
			out.Release()
			return Array{}, &JsonsError{
				Op:      "filter",
				Path:    predicate,
				Message: fmt.Sprintf("predicate failed at index %d", i),
				Err:     fmt.Errorf("%w: %v", ErrOperationFailed, err),
			}
		}
		keep, ok := res.(bool)
		if !ok {
			out.Release()
			return Array{}, &JsonsError{
				Op:      "filter",
				Path:    predicate,
				Message: fmt.Sprintf("predicate returned %T, expected bool", res),
				Err:     ErrTypeMismatch,
			}
		}
		if keep {
			out.Append(item)
		}
	}
	return out, nil
}

func compileQuery(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, newOperationError("query", "", "expression cannot be empty", ErrOperationFailed)
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, &JsonsError{
			Op:      "query",
			Path:    expression,
			Message: "expression does not compile",
			Err:     fmt.Errorf("%w: %v", ErrOperationFailed, err),
		}
	}
	return program, nil
}

func queryEnv(v Value) map[string]any {
	doc := v.Interface()
	env := map[string]any{}
	if m, ok := doc.(map[string]any); ok {
		for k, val := range m {
			env[k] = val
		}
	}
	env["doc"] = doc
	return env
}
