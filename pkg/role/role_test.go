package role

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tallyhq/tally/pkg/errors"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry failed validation: %v", err)
	}
	if reg.Root() != Manager {
		t.Fatalf("root role is %q, want %q", reg.Root(), Manager)
	}
	if len(reg.Names()) != 4 {
		t.Fatalf("expected 4 roles, got %d", len(reg.Names()))
	}
}

func TestHandoffGraphShape(t *testing.T) {
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("registry failed: %v", err)
	}

	manager, _ := reg.ForRole(Manager)
	for _, specialist := range []string{Employee, Team, Attendance} {
		if !manager.CanHandoffTo(specialist) {
			t.Errorf("manager cannot hand off to %s", specialist)
		}
		r, err := reg.ForRole(specialist)
		if err != nil {
			t.Fatalf("ForRole(%s) failed: %v", specialist, err)
		}
		if len(r.HandoffTargets) != 1 || r.HandoffTargets[0] != Manager {
			t.Errorf("%s hand-off targets = %v, want [manager]", specialist, r.HandoffTargets)
		}
		if r.CanHandoffTo(specialist) {
			t.Errorf("%s must not hand off to itself", specialist)
		}
	}
	if len(manager.Tools) != 0 {
		t.Errorf("manager must not carry data tools, has %v", manager.Tools)
	}
}

func TestForRoleUnknown(t *testing.T) {
	reg, _ := DefaultRegistry()
	_, err := reg.ForRole("payroll")
	if !errors.HasCode(err, errors.CodeUnknownRole) {
		t.Fatalf("expected UNKNOWN_ROLE, got %v", err)
	}
}

func TestRegistryRejectsDanglingHandoff(t *testing.T) {
	_, err := NewRegistry("a",
		Role{Name: "a", HandoffTargets: []string{"ghost"}},
	)
	if !errors.HasCode(err, errors.CodeUnknownRole) {
		t.Fatalf("expected UNKNOWN_ROLE, got %v", err)
	}
}

func TestRegistryRejectsSelfHandoff(t *testing.T) {
	_, err := NewRegistry("a",
		Role{Name: "a", HandoffTargets: []string{"a"}},
	)
	if !errors.HasCode(err, errors.CodeConfigError) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestRegistryRejectsMissingRoot(t *testing.T) {
	_, err := NewRegistry("missing", Role{Name: "a"})
	if !errors.HasCode(err, errors.CodeConfigError) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestManifestOverridesInstructions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := `roles:
  - name: manager
    instructions: "Delegate wisely."
  - name: payroll
    instructions: "ignored"
  - name: team
    instructions: ""
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	roles := m.Apply(Defaults())

	byName := make(map[string]Role)
	for _, r := range roles {
		byName[r.Name] = r
	}
	if byName[Manager].Instructions != "Delegate wisely." {
		t.Error("manager override not applied")
	}
	if byName[Team].Instructions == "" {
		t.Error("empty override must keep built-in prompt")
	}
	if _, ok := byName["payroll"]; ok {
		t.Error("unknown role must not be added")
	}
}
