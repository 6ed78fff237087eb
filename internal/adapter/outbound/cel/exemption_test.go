package cel

import (
	"strings"
	"testing"
	"time"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

func TestCompile(t *testing.T) {
	exemptions, err := Compile([]string{
		`"keeper" in account.roles`,
		`account.name == "integration-bot"`,
	})
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}
	if exemptions.Len() != 2 {
		t.Errorf("Len() = %d, want 2", exemptions.Len())
	}
}

func TestCompile_RejectsNonBool(t *testing.T) {
	if _, err := Compile([]string{`account.name`}); err == nil {
		t.Error("Compile() should reject a non-boolean expression")
	}
}

func TestCompile_RejectsInvalidSyntax(t *testing.T) {
	if _, err := Compile([]string{`account.roles ==`}); err == nil {
		t.Error("Compile() should reject invalid syntax")
	}
}

func TestCompile_RejectsOverlongExpression(t *testing.T) {
	expr := `account.name == "` + strings.Repeat("x", maxExpressionLength) + `"`
	if _, err := Compile([]string{expr}); err == nil {
		t.Error("Compile() should reject an overlong expression")
	}
}

func TestExemptions_IsExempt(t *testing.T) {
	exemptions, err := Compile([]string{`"keeper" in account.roles`})
	if err != nil {
		t.Fatalf("Compile(): %v", err)
	}

	tests := []struct {
		name string
		acct account.Account
		want bool
	}{
		{"owner always exempt", account.Account{UID: 1}, true},
		{"matching role", account.Account{UID: 2, Roles: []string{"keeper"}}, true},
		{"no matching role", account.Account{UID: 2, Roles: []string{"editor"}}, false},
		{"no roles at all", account.Account{UID: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exemptions.IsExempt(&tt.acct); got != tt.want {
				t.Errorf("IsExempt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExemptions_IsExempt_NilExemptions(t *testing.T) {
	var exemptions *Exemptions
	if exemptions.IsExempt(&account.Account{UID: 2}) {
		t.Error("IsExempt() nil exemptions should not exempt ordinary accounts")
	}
	if !exemptions.IsExempt(&account.Account{UID: 1}) {
		t.Error("IsExempt() nil exemptions must still exempt the owner account")
	}
}

func TestExemptions_IsExempt_ErroringRuleDoesNotExempt(t *testing.T) {
	// Indexing a missing map key errors at evaluation time; the rule is
	// skipped and the remaining rules still apply.
	exemptions, err := Compile([]string{
		`account.missing_key == "x"`,
		`account.name == "bot"`,
	})
	if err != nil {
		t.Fatalf("Compile(): %v", err)
	}

	a := &account.Account{UID: 2, Name: "bot", LastAccess: time.Now()}
	if !exemptions.IsExempt(a) {
		t.Error("IsExempt() later rules should still apply after an erroring rule")
	}
	if exemptions.IsExempt(&account.Account{UID: 2, Name: "human"}) {
		t.Error("IsExempt() erroring rule must not exempt by itself")
	}
}
