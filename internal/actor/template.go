package actor

import (
	"fmt"
	"strings"

	"github.com/wishbone-run/wishbone/internal/event"
)

// LookupFunc is a declared lookup exposed as a template global (spec section
// 4.3, "Template parameter rendering"). It resolves key against whatever
// backing store the lookup component wraps (static map, JSONPath document,
// Redis, ...).
type LookupFunc func(key string) (any, error)

// segment is one parsed `${...}` placeholder inside a template string: a
// dotted path into the event dump, or a call into a declared lookup.
type segment struct {
	literal string // non-empty for a literal run of text
	isExpr  bool
	path    string // dotted path, e.g. "data.user.id"
	lookup  string // non-empty when the expression is "lookupName(path)"
}

// Template is a compiled parameter string. It intentionally supports only
// the finite grammar spec section 9 calls for: literal text, `${path}`
// dotted lookups into the event dump, and `${lookup(path)}` calls into a
// declared lookup function. There is no general expression evaluator here;
// arbitrary computation belongs in a function component instead
// (modules/functions/script), never in the template sandbox.
type Template struct {
	segments []segment
}

// Compile parses raw into a Template. Placeholders use `${...}` delimiters.
// A string with no placeholders compiles to a single literal segment.
func Compile(raw string) *Template {
	t := &Template{}
	i := 0
	for i < len(raw) {
		start := strings.Index(raw[i:], "${")
		if start < 0 {
			t.segments = append(t.segments, segment{literal: raw[i:]})
			break
		}
		start += i
		if start > i {
			t.segments = append(t.segments, segment{literal: raw[i:start]})
		}
		end := strings.Index(raw[start:], "}")
		if end < 0 {
			t.segments = append(t.segments, segment{literal: raw[start:]})
			break
		}
		end += start
		expr := strings.TrimSpace(raw[start+2 : end])
		t.segments = append(t.segments, parseExpr(expr))
		i = end + 1
	}
	return t
}

func parseExpr(expr string) segment {
	if open := strings.Index(expr, "("); open >= 0 && strings.HasSuffix(expr, ")") {
		return segment{isExpr: true, lookup: strings.TrimSpace(expr[:open]), path: strings.TrimSpace(expr[open+1 : len(expr)-1])}
	}
	return segment{isExpr: true, path: expr}
}

// Render evaluates the template against e's dump, resolving lookup calls
// via lookups. The result is always a string: a template with exactly one
// placeholder and no surrounding literal text still renders to that value's
// string form, matching the source behavior of templated kwargs.
func (t *Template) Render(e *event.Event, lookups map[string]LookupFunc) (string, error) {
	var b strings.Builder
	dump := e.Dump()
	for _, seg := range t.segments {
		if !seg.isExpr {
			b.WriteString(seg.literal)
			continue
		}
		val, err := seg.eval(dump, lookups)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%v", val)
	}
	return b.String(), nil
}

func (seg segment) eval(dump map[string]any, lookups map[string]LookupFunc) (any, error) {
	if seg.lookup != "" {
		fn, ok := lookups[seg.lookup]
		if !ok {
			return nil, fmt.Errorf("template: undeclared lookup %q", seg.lookup)
		}
		return fn(seg.path)
	}
	return pathLookup(dump, seg.path)
}

func pathLookup(dump map[string]any, path string) (any, error) {
	parts := strings.Split(path, ".")
	var cur any = dump
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template: path %q does not resolve to a mapping at %q", path, part)
		}
		v, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("template: path %q has no key %q", path, part)
		}
		cur = v
	}
	return cur, nil
}

// RenderParams renders every string-valued entry of params against e,
// leaving non-string values untouched, per spec section 4.3: "Non-string
// parameters pass through."
func RenderParams(params map[string]any, compiled map[string]*Template, e *event.Event, lookups map[string]LookupFunc) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for key, val := range params {
		tmpl, ok := compiled[key]
		if !ok {
			out[key] = val
			continue
		}
		rendered, err := tmpl.Render(e, lookups)
		if err != nil {
			return nil, err
		}
		out[key] = rendered
	}
	return out, nil
}

// CompileParams compiles every string-valued entry of params into a
// Template, called once at actor construction (spec section 4.3:
// "At construction, each string-typed parameter is compiled into a
// template").
func CompileParams(params map[string]any) map[string]*Template {
	compiled := make(map[string]*Template)
	for key, val := range params {
		if s, ok := val.(string); ok {
			compiled[key] = Compile(s)
		}
	}
	return compiled
}
