// Package policy evaluates the rule that decides which role may sign in from
// which application type.
package policy

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// DefaultAccessRule lets administrators into the portal and users into the
// mobile client.
const DefaultAccessRule = `(appType == "Portal" && role == "Admin") || (appType == "Client" && role == "User")`

// AccessRequest is the input of an access decision.
type AccessRequest struct {
	AppType  string
	Role     string
	UserName string
}

// AccessPolicy decides whether an authenticated user may open a session.
type AccessPolicy interface {
	Allow(ctx context.Context, req AccessRequest) (bool, error)
	Expression() string
}

// CELAccessPolicy is an AccessPolicy backed by a compiled CEL program.
type CELAccessPolicy struct {
	expression string
	program    cel.Program
}

// NewCELAccessPolicy compiles expression once. An empty expression selects
// DefaultAccessRule.
func NewCELAccessPolicy(expression string) (*CELAccessPolicy, error) {
	if expression == "" {
		expression = DefaultAccessRule
	}

	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("appType", decls.String),
			decls.NewVar("role", decls.String),
			decls.NewVar("userName", decls.String),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("access rule must evaluate to bool, got %v", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &CELAccessPolicy{expression: expression, program: program}, nil
}

// Allow evaluates the rule for req.
func (p *CELAccessPolicy) Allow(ctx context.Context, req AccessRequest) (bool, error) {
	out, _, err := p.program.ContextEval(ctx, map[string]interface{}{
		"appType":  req.AppType,
		"role":     req.Role,
		"userName": req.UserName,
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean value")
	}
	return allowed, nil
}

// Expression returns the source of the compiled rule.
func (p *CELAccessPolicy) Expression() string {
	return p.expression
}
