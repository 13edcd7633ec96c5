package speaker

import (
	"regexp"
	"strings"
)

// Method records how a raw reference was resolved.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodPattern  Method = "pattern"
	MethodFallback Method = "fallback"
)

// Resolved is the outcome of resolving one raw speaker reference.
type Resolved struct {
	ID     string
	Method Method
}

// Fallback reports whether the resolution required the fallback speaker.
func (r Resolved) Fallback() bool {
	return r.Method == MethodFallback
}

type compiledPattern struct {
	re     *regexp.Regexp
	target string
}

// Resolver maps raw speaker references to canonical identities against a
// registry snapshot. Resolution order: exact identity match, then name map
// patterns in file order, then the fallback speaker. Every fallback of a
// non-empty reference is recorded in the report.
type Resolver struct {
	registry *Registry
	patterns []compiledPattern
	fallback string
	report   *UnresolvedReport
}

// NewResolver compiles the registry's name map patterns. Patterns that fail to
// compile are skipped, matching the registry's lenient read semantics.
func NewResolver(reg *Registry) *Resolver {
	r := &Resolver{
		registry: reg,
		fallback: reg.NameMap.Fallback,
		report:   NewUnresolvedReport(),
	}
	if r.fallback == "" {
		r.fallback = DefaultFallback
	}
	for _, entry := range reg.NameMap.Patterns {
		if entry.Pattern == "" || entry.Speaker == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + entry.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, compiledPattern{re: re, target: entry.Speaker})
	}
	return r
}

// Fallback returns the canonical fallback identity.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Report returns the accumulated unresolved-reference report.
func (r *Resolver) Report() *UnresolvedReport {
	return r.report
}

// Resolve maps raw to a canonical identity. An empty reference resolves to the
// fallback speaker without being reported.
func (r *Resolver) Resolve(raw string) Resolved {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resolved{ID: r.fallback, Method: MethodFallback}
	}

	if _, ok := r.registry.Speakers.Items[raw]; ok {
		return Resolved{ID: raw, Method: MethodDirect}
	}

	for _, pattern := range r.patterns {
		if pattern.re.MatchString(raw) {
			return Resolved{ID: pattern.target, Method: MethodPattern}
		}
	}

	r.report.Record(raw)
	return Resolved{ID: r.fallback, Method: MethodFallback}
}

// UnresolvedReport aggregates raw references that fell back without matching,
// deduplicated and kept in first-seen order.
type UnresolvedReport struct {
	names []string
	seen  map[string]struct{}
}

func NewUnresolvedReport() *UnresolvedReport {
	return &UnresolvedReport{seen: map[string]struct{}{}}
}

// Record adds a raw reference to the report if it has not been seen yet.
func (u *UnresolvedReport) Record(name string) {
	if name == "" {
		return
	}
	if _, ok := u.seen[name]; ok {
		return
	}
	u.seen[name] = struct{}{}
	u.names = append(u.names, name)
}

// Names returns the distinct unresolved references in first-seen order.
func (u *UnresolvedReport) Names() []string {
	cp := make([]string, len(u.names))
	copy(cp, u.names)
	return cp
}

// Len returns the number of distinct unresolved references.
func (u *UnresolvedReport) Len() int {
	return len(u.names)
}
