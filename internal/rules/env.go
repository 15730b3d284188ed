package rules

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cyberguard/cyberguard/internal/eventlog"
)

// Env is the environment an expression is evaluated against.
// Env 是表达式求值所使用的环境。
type Env struct {
	ID        string
	Event     string
	Severity  string
	Status    string
	Source    string
	Details   string
	Timestamp time.Time
	Rank      int
}

const maxCachedPatterns = 1000

var (
	regexCache sync.Map
	regexCount int64
)

func newEnv(r eventlog.LogRecord) Env {
	return Env{
		ID:        r.ID,
		Event:     r.Event,
		Severity:  string(r.Severity),
		Status:    string(r.Status),
		Source:    r.Source,
		Details:   r.Details,
		Timestamp: r.Timestamp,
		Rank:      r.Severity.Rank(),
	}
}

// Log checks if event, source or details contain s (case-insensitive).
// Usage: Log("camera")
func (e Env) Log(s string) bool {
	needle := strings.ToLower(s)
	return strings.Contains(strings.ToLower(e.Event), needle) ||
		strings.Contains(strings.ToLower(e.Source), needle) ||
		strings.Contains(strings.ToLower(e.Details), needle)
}

// Match checks if event, source or details match the regular expression.
func (e Env) Match(pattern string) bool {
	re := compilePattern(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(e.Event) || re.MatchString(e.Source) || re.MatchString(e.Details)
}

// Like matches the source against a glob where * is any run of characters.
// Usage: Like("extension-*")
func (e Env) Like(pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return e.Source == pattern
	}
	quoted := regexp.QuoteMeta(pattern)
	re := compilePattern("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
	return re != nil && re.MatchString(e.Source)
}

// Since reports whether the event happened within d of now.
func (e Env) Since(d string) bool {
	dur, err := time.ParseDuration(d)
	if err != nil {
		return false
	}
	return time.Since(e.Timestamp) <= dur
}

func compilePattern(pattern string) *regexp.Regexp {
	if v, ok := regexCache.Load(pattern); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	if atomic.LoadInt64(&regexCount) < maxCachedPatterns {
		regexCache.Store(pattern, re)
		atomic.AddInt64(&regexCount, 1)
	}
	return re
}
