package skill

import "testing"

func TestNormalize_Aliases(t *testing.T) {
	tax := Default()

	tests := []struct {
		raw  string
		want string
	}{
		{"ReactJS", "react"},
		{"react.js", "react"},
		{"Golang", "go"},
		{"K8s", "kubernetes"},
		{"PostgreSQL", "postgresql"},
		{"  Machine   Learning  ", "machine learning"},
		{"COBOL", "cobol"}, // unknown skills pass through lowercased
	}
	for _, tt := range tests {
		if got := tax.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	tax := Default()

	inputs := []string{"ReactJS", "golang", "k8s", "Python", "something unknown"}
	for _, raw := range inputs {
		once := tax.Normalize(raw)
		twice := tax.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestRelated(t *testing.T) {
	tax := Default()

	related := tax.Related("django")
	if len(related) == 0 {
		t.Fatal("expected django to have family members")
	}
	found := false
	for _, r := range related {
		if r == "django" {
			t.Error("Related must not include the skill itself")
		}
		if r == "python" {
			found = true
		}
	}
	if !found {
		t.Error("expected python in django's family")
	}

	if got := tax.Related("cobol"); got != nil {
		t.Errorf("expected nil for skill without family, got %v", got)
	}
}

func TestParse_RejectsAliasChains(t *testing.T) {
	data := []byte(`
version: "test"
aliases:
  a: b
  b: c
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for alias chain a -> b -> c")
	}
}

func TestParse_RequiresVersion(t *testing.T) {
	data := []byte(`
aliases:
  reactjs: react
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestParse_RejectsEmptyFamily(t *testing.T) {
	data := []byte(`
version: "test"
families:
  - name: empty
    members: []
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for family without members")
	}
}

func TestParse_NormalizesFamilyMembers(t *testing.T) {
	data := []byte(`
version: "test"
aliases:
  reactjs: react
families:
  - name: frontend
    members: [ReactJS, Vue]
`)
	tax, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	related := tax.Related("react")
	if len(related) != 1 || related[0] != "vue" {
		t.Errorf("expected [vue], got %v", related)
	}
}
