package policy

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// DefaultStoreAccessRule: inactive users see nothing, admins see every
// store, an empty store list means all stores, otherwise membership.
const DefaultStoreAccessRule = `user.active && (user.role == "admin" || size(user.stores) == 0 || store in user.stores)`

var _ domain.AccessPolicy = (*CELPolicy)(nil)

// CELPolicy decides store access with a CEL expression over the variables
// user (id, email, role, active, stores) and store (the store key).
type CELPolicy struct {
	expr    string
	program cel.Program
}

func NewCELPolicy(expr string) (*CELPolicy, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultStoreAccessRule
	}

	env, err := cel.NewEnv(
		cel.Variable("user", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("store", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &CELPolicy{expr: expr, program: prg}, nil
}

func (p *CELPolicy) Expression() string {
	return p.expr
}

func (p *CELPolicy) Allowed(user *domain.User, storeKey string) (bool, error) {
	if user == nil {
		return false, nil
	}

	stores := []string(user.Stores)
	if stores == nil {
		stores = []string{}
	}

	out, _, err := p.program.Eval(map[string]interface{}{
		"user": map[string]interface{}{
			"id":     user.ID,
			"email":  user.Email,
			"role":   user.Role,
			"active": user.Active,
			"stores": stores,
		},
		"store": storeKey,
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean, got %T", out.Value())
	}
	return result, nil
}
