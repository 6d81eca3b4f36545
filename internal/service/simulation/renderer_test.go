package simulation

import (
	"strings"
	"testing"

	"github.com/guardians/awareness-portal/internal/domain"
)

var testEmployee = &domain.Employee{
	Name:       "Alice Perera",
	Email:      "alice@corp.test",
	EmployeeID: "EMP-001",
	Department: domain.DepartmentCyber,
}

func TestRenderReplacesFirstPlaceholderOnly(t *testing.T) {
	r := NewRenderer()
	html := `<a href="{{TRACKING_LINK}}">here</a> or <a href="{{TRACKING_LINK}}">there</a>`
	out := r.Render(html, testEmployee, "https://t.example/landing?tk=abc")

	if strings.Count(out, "https://t.example/landing?tk=abc") != 1 {
		t.Fatalf("expected exactly one replacement, got: %s", out)
	}
	if !strings.Contains(out, "{{TRACKING_LINK}}") {
		t.Fatalf("second placeholder should survive, got: %s", out)
	}
	if !strings.HasPrefix(out, `<a href="https://t.example/landing?tk=abc">`) {
		t.Fatalf("first placeholder should be replaced, got: %s", out)
	}
}

func TestRenderWithoutPlaceholderIsUnchanged(t *testing.T) {
	r := NewRenderer()
	html := `<p>Reset your password now.</p>`
	out := r.Render(html, testEmployee, "https://t.example/landing?tk=abc")
	if out != html {
		t.Fatalf("template without placeholder must pass through, got: %s", out)
	}
}

func TestRenderPersonalization(t *testing.T) {
	r := NewRenderer()
	html := `<p>Hi {{ name }}, IT needs {{ department }} staff to verify: {{TRACKING_LINK}}</p>`
	out := r.Render(html, testEmployee, "URL")

	if !strings.Contains(out, "Hi Alice Perera") {
		t.Errorf("name binding missing: %s", out)
	}
	if !strings.Contains(out, "Cyber staff") {
		t.Errorf("department binding missing: %s", out)
	}
	if !strings.Contains(out, "verify: URL") {
		t.Errorf("placeholder not replaced: %s", out)
	}
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	r := NewRenderer()
	out := r.Render(`Hello {{ nickname }}!`, testEmployee, "URL")
	if out != "Hello !" {
		t.Fatalf("missing variables must render empty, got: %q", out)
	}
}

func TestRenderInvalidLiquidFallsBack(t *testing.T) {
	r := NewRenderer()
	html := `{% broken %}click {{TRACKING_LINK}}`
	out := r.Render(html, testEmployee, "URL")
	if !strings.Contains(out, "click URL") {
		t.Fatalf("fallback must still splice the link, got: %q", out)
	}
}
