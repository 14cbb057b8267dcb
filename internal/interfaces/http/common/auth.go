package common

import "context"

type contextKey string

const operatorContextKey contextKey = "operator"

// Operator is the allow-listed administrator resolved from the identity token.
type Operator struct {
	Email string `json:"email"`
}

// ContextWithOperator stores the operator into context.
func ContextWithOperator(ctx context.Context, operator Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey, operator)
}

// OperatorFromContext extracts the operator from context.
func OperatorFromContext(ctx context.Context) (Operator, bool) {
	operator, ok := ctx.Value(operatorContextKey).(Operator)
	return operator, ok && operator.Email != ""
}
