// Package cel provides CEL-based sweep exemption rules: per-account
// predicates that keep matching accounts out of the stale-account reset
// queue.
package cel

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"

	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

var _ outbound.Exempter = (*Exemptions)(nil)

// maxExpressionLength caps exemption expressions; anything longer is
// operator error, not policy.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit per evaluation.
const maxCostBudget = 100_000

// Exemptions holds compiled exemption predicates. An account matching any
// predicate is skipped by the sweep. The owner account is always exempt
// regardless of configured rules.
type Exemptions struct {
	programs []compiledRule
}

type compiledRule struct {
	expr string
	prg  cel.Program
}

// newEnv creates the CEL environment exemption rules compile against.
// Rules see a single `account` map with uid, name, mail, roles and
// last_access keys.
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("account", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// Compile parses and type-checks the given exemption expressions.
// Every expression must evaluate to a boolean.
func Compile(expressions []string) (*Exemptions, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create exemption environment: %w", err)
	}

	out := &Exemptions{}
	for _, expr := range expressions {
		if len(expr) > maxExpressionLength {
			return nil, fmt.Errorf("exemption expression too long (%d > %d)", len(expr), maxExpressionLength)
		}
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("exemption %q: compilation failed: %w", expr, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("exemption %q: must evaluate to bool, got %s", expr, ast.OutputType())
		}
		prg, err := env.Program(ast,
			cel.EvalOptions(cel.OptOptimize),
			cel.CostLimit(maxCostBudget),
		)
		if err != nil {
			return nil, fmt.Errorf("exemption %q: program creation failed: %w", expr, err)
		}
		out.programs = append(out.programs, compiledRule{expr: expr, prg: prg})
	}
	return out, nil
}

// IsExempt reports whether the account matches any exemption rule.
// The owner account is always exempt. A rule that errors at evaluation
// time does not exempt (fail closed toward resetting would be wrong the
// other way: an erroring rule must not silently widen the sweep either,
// so the error is logged and the remaining rules still apply).
func (e *Exemptions) IsExempt(a *account.Account) bool {
	if a.UID == account.OwnerUID {
		return true
	}
	if e == nil || len(e.programs) == 0 {
		return false
	}

	roles := make([]string, len(a.Roles))
	copy(roles, a.Roles)
	vars := map[string]any{
		"account": map[string]any{
			"uid":         a.UID,
			"name":        a.Name,
			"mail":        a.Mail,
			"roles":       roles,
			"last_access": a.LastAccess,
		},
	}

	for _, rule := range e.programs {
		val, _, err := rule.prg.Eval(vars)
		if err != nil {
			slog.Debug("exemption rule evaluation failed", "rule", rule.expr, "uid", a.UID, "error", err)
			continue
		}
		if b, ok := val.Value().(bool); ok && b {
			return true
		}
	}
	return false
}

// Len returns the number of compiled rules.
func (e *Exemptions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.programs)
}
