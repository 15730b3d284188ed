package rules

import (
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Predicate is a compiled boolean expression over a LogRecord.
type Predicate struct {
	Source  string
	program *vm.Program
}

var aliases = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\blog\(`), "Log("},
	{regexp.MustCompile(`\bmatch\(`), "Match("},
	{regexp.MustCompile(`\blike\(`), "Like("},
	{regexp.MustCompile(`\bsince\(`), "Since("},
}

// preprocessExpression rewrites lowercase helper calls to their exported names.
// Quoted string literals are copied unchanged.
func preprocessExpression(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	start := 0
	for i := 0; i < len(src); i++ {
		q := src[i]
		if q != '"' && q != '\'' && q != '`' {
			continue
		}
		b.WriteString(rewriteAliases(src[start:i]))
		end := literalEnd(src, i)
		b.WriteString(src[i:end])
		start = end
		i = end - 1
	}
	b.WriteString(rewriteAliases(src[start:]))
	return b.String()
}

func rewriteAliases(code string) string {
	for _, a := range aliases {
		code = a.re.ReplaceAllString(code, a.repl)
	}
	return code
}

// literalEnd returns the index just past the literal opened at src[i].
// An unterminated literal runs to the end of src.
func literalEnd(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '\\' && q != '`':
			j++
		case src[j] == q:
			return j + 1
		}
	}
	return len(src)
}

// Compile builds a Predicate. The expression must evaluate to a bool.
//
//	Severity == "critical" && log("camera")
//	Rank >= 3 && Status != "allowed"
func Compile(expression string) (*Predicate, error) {
	src := strings.TrimSpace(expression)
	if src == "" {
		return nil, cgerrors.NewExpressionError(expression, errEmpty)
	}

	program, err := expr.Compile(preprocessExpression(src), expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, cgerrors.NewExpressionError(expression, err)
	}
	return &Predicate{Source: src, program: program}, nil
}

// Match evaluates the predicate. Runtime errors count as no match.
func (p *Predicate) Match(r eventlog.LogRecord) bool {
	out, err := expr.Run(p.program, newEnv(r))
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

// Count returns how many records match.
func (p *Predicate) Count(records []eventlog.LogRecord) int {
	n := 0
	for i := range records {
		if p.Match(records[i]) {
			n++
		}
	}
	return n
}
