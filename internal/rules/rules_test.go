package rules

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itsmostafa/chapterfix/internal/validate"
)

const noTodoRule = `
for (var i = 0; i < lines.length; i++) {
	if (re.test("TODO", lines[i])) {
		issue("WARNING", i + 1, "leftover TODO");
	}
}
`

func TestRuleReportsIssues(t *testing.T) {
	r := &Rule{ID: "no-todo", Source: noTodoRule}
	issues, err := r.Check(context.Background(), []string{"# 1 A", "TODO fix", "ok", "another TODO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Line != 2 || issues[1].Line != 4 {
		t.Errorf("lines = %d, %d, want 2, 4", issues[0].Line, issues[1].Line)
	}
	if issues[0].Check != "rule:no-todo" {
		t.Errorf("check = %q, want %q", issues[0].Check, "rule:no-todo")
	}
	if issues[0].Severity != validate.SeverityWarning {
		t.Errorf("severity = %q", issues[0].Severity)
	}
}

func TestRulePrint(t *testing.T) {
	var out bytes.Buffer
	r := &Rule{ID: "p", Source: `print("count", lines.length)`, Output: &out}
	if _, err := r.Check(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "count 2\n" {
		t.Errorf("output = %q, want %q", out.String(), "count 2\n")
	}
}

func TestRuleBadSeverity(t *testing.T) {
	r := &Rule{ID: "bad", Source: `issue("INFO", 1, "x")`}
	_, err := r.Check(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "severity") {
		t.Errorf("expected severity error, got %v", err)
	}
}

func TestRuleTimeout(t *testing.T) {
	r := &Rule{ID: "spin", Source: `while (true) {}`, Timeout: 50 * time.Millisecond}
	_, err := r.Check(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Errorf("expected interrupt error, got %v", err)
	}
}

func TestRuleThroughValidator(t *testing.T) {
	r := &Rule{ID: "must-error", Source: `issue("ERROR", 1, "nope")`}
	result := validate.Document(context.Background(), "doc.md", []string{"# 1 A"}, validate.Options{
		Extra: Checkers([]*Rule{r}),
	})
	if result.Passed() {
		t.Error("expected rule ERROR to fail the document")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no-todo.js")
	if err := os.WriteFile(path, []byte(noTodoRule), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := Load([]string{path}, time.Second)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "no-todo" {
		t.Errorf("Load() = %+v", rules)
	}

	if _, err := Load([]string{filepath.Join(dir, "missing.js")}, 0); err == nil {
		t.Error("expected error for missing rule file")
	}
}
