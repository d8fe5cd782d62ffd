// Package rules runs user-written JavaScript validation rules against a
// document in a sandboxed goja runtime.
//
// A rule script sees:
//
//	lines                     the document lines (0-based array)
//	issue(severity, line, msg) report a finding; severity is "ERROR" or "WARNING", line is 1-based
//	re.test(pattern, text)    Go regexp match
//	print(...)                write to the rule's output
package rules

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/itsmostafa/chapterfix/internal/validate"
)

// DefaultTimeout bounds one rule execution.
const DefaultTimeout = 5 * time.Second

// Rule is one named script.
type Rule struct {
	ID      string
	Source  string
	Timeout time.Duration
	// Output receives print() calls; nil discards them.
	Output io.Writer
}

// Load reads each path as a rule named after its file.
func Load(paths []string, timeout time.Duration) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading rule %s: %w", p, err)
		}
		rules = append(rules, &Rule{
			ID:      strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Source:  string(data),
			Timeout: timeout,
		})
	}
	return rules, nil
}

// Checkers adapts rules for validate.Options.Extra.
func Checkers(rules []*Rule) []validate.Checker {
	out := make([]validate.Checker, len(rules))
	for i, r := range rules {
		out[i] = r
	}
	return out
}

// Name returns the check name used in issues.
func (r *Rule) Name() string {
	return "rule:" + r.ID
}

// Check runs the script against lines. Each call gets a fresh runtime.
func (r *Rule) Check(ctx context.Context, lines []string) ([]validate.Issue, error) {
	vm := goja.New()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go func() {
		<-timeoutCtx.Done()
		vm.Interrupt("execution timeout or cancelled")
	}()

	var issues []validate.Issue
	if err := r.setupEnvironment(vm, lines, &issues); err != nil {
		return nil, fmt.Errorf("failed to setup environment: %w", err)
	}

	if _, err := vm.RunString(r.Source); err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			return issues, fmt.Errorf("execution interrupted: %v", interrupted.Value())
		}
		return issues, fmt.Errorf("execution error: %w", err)
	}
	return issues, nil
}

func (r *Rule) setupEnvironment(vm *goja.Runtime, lines []string, issues *[]validate.Issue) error {
	if err := vm.Set("lines", lines); err != nil {
		return fmt.Errorf("failed to set lines: %w", err)
	}

	issueFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("issue requires 3 arguments: severity, line, message"))
		}
		var sev validate.Severity
		switch strings.ToUpper(call.Arguments[0].String()) {
		case "ERROR":
			sev = validate.SeverityError
		case "WARNING", "WARN":
			sev = validate.SeverityWarning
		default:
			panic(vm.NewTypeError("severity must be ERROR or WARNING"))
		}
		*issues = append(*issues, validate.Issue{
			Check:    r.Name(),
			Severity: sev,
			Line:     int(call.Arguments[1].ToInteger()),
			Message:  call.Arguments[2].String(),
		})
		return goja.Undefined()
	}
	if err := vm.Set("issue", issueFunc); err != nil {
		return fmt.Errorf("failed to set issue: %w", err)
	}

	printFunc := func(call goja.FunctionCall) goja.Value {
		if r.Output == nil {
			return goja.Undefined()
		}
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		fmt.Fprintln(r.Output, strings.Join(args, " "))
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	re := vm.NewObject()
	test := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("test requires 2 arguments: pattern, text"))
		}
		pattern, err := regexp.Compile(call.Arguments[0].String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(pattern.MatchString(call.Arguments[1].String()))
	}
	if err := re.Set("test", test); err != nil {
		return err
	}
	return vm.Set("re", re)
}
