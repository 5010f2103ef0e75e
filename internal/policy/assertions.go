// Package policy holds the optional claim assertions evaluated after the
// fixed verification checks.
package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// AssertionConfig is the YAML form of one claim assertion.
type AssertionConfig struct {
	// Name is a human-readable identifier for logs/debugging.
	Name string `yaml:"name"`

	// Expr is a boolean expression over the verified claims,
	// e.g. `claims.client_id != ""`.
	Expr string `yaml:"expr"`
}

// Assertion is a compiled claim assertion. A failing assertion denies the
// request even though the token verified cryptographically.
type Assertion struct {
	Name    string
	Expr    string
	program *vm.Program
}

// Compile validates and compiles a set of assertion configs.
// Compilation happens once at configuration load, never per request.
func Compile(cfgs []AssertionConfig) ([]*Assertion, error) {
	seen := make(map[string]struct{}, len(cfgs))
	assertions := make([]*Assertion, 0, len(cfgs))

	for i, cfg := range cfgs {
		if cfg.Name == "" {
			return nil, fmt.Errorf("assertion #%d missing name", i)
		}
		if _, exists := seen[cfg.Name]; exists {
			return nil, fmt.Errorf("assertion name %q is not unique", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}

		if cfg.Expr == "" {
			return nil, fmt.Errorf("assertion %q missing expr", cfg.Name)
		}
		program, err := expr.Compile(cfg.Expr, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compiling expr for assertion %q: %w", cfg.Name, err)
		}

		assertions = append(assertions, &Assertion{
			Name:    cfg.Name,
			Expr:    cfg.Expr,
			program: program,
		})
	}

	return assertions, nil
}

// Eval runs the assertion against the verified claims.
func (a *Assertion) Eval(claims map[string]any) (bool, error) {
	out, err := expr.Run(a.program, map[string]any{
		"claims": claims,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating assertion %q: %w", a.Name, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("assertion %q did not evaluate to a boolean", a.Name)
	}
	return b, nil
}
