package internal

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultParamPattern is the expression used for placeholders without a constraint.
const DefaultParamPattern = `[a-zA-Z0-9_=\-\?]+`

var (
	placeholderRe = regexp.MustCompile(`\{([^{}/]+)\}`)
	// Same as placeholderRe but also captures the separator in front of the
	// placeholder so optional segments can be dropped together with it.
	segmentRe = regexp.MustCompile(`/?\{([^{}/]+)\}`)
)

// RouteParam is a single named route argument.
type RouteParam struct {
	Key   string
	Value string
}

// Params holds matched route arguments in template order.
type Params []RouteParam

// Get returns the value bound to name.
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Key == name {
			return p.Value, true
		}
	}
	return "", false
}

// Values returns the positional argument list.
func (ps Params) Values() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

// Pattern is a compiled path template.
type Pattern struct {
	template string
	re       *regexp.Regexp
	names    []string
	groups   []int
}

// CompilePattern turns a path template such as "/blog/{year}/{slug?}" into an
// anchored regular expression. Placeholders use the expression from
// constraints when present and DefaultParamPattern otherwise. Optional
// placeholders make both the value and the separator in front of them optional.
func CompilePattern(template string, constraints map[string]string) (*Pattern, error) {
	var b strings.Builder
	b.WriteString("^")

	p := &Pattern{template: template}
	last := 0
	for i, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		literal := template[last:loc[0]]

		raw := template[loc[2]:loc[3]]
		name := strings.TrimSuffix(raw, "?")
		optional := name != raw
		if name == "" {
			return nil, fmt.Errorf("%w: empty placeholder in %q", ErrInvalidConfiguration, template)
		}

		expr := constraints[name]
		if expr == "" {
			expr = DefaultParamPattern
		}

		group := "p" + strconv.Itoa(i)
		switch {
		case optional && strings.HasSuffix(literal, "/"):
			// The separator belongs to the optional segment: both are present or both absent.
			b.WriteString(regexp.QuoteMeta(strings.TrimSuffix(literal, "/")))
			fmt.Fprintf(&b, "(?:/(?P<%s>%s))?", group, expr)
		case optional:
			b.WriteString(regexp.QuoteMeta(literal))
			fmt.Fprintf(&b, "(?:(?P<%s>%s))?", group, expr)
		default:
			b.WriteString(regexp.QuoteMeta(literal))
			fmt.Fprintf(&b, "(?P<%s>%s)", group, expr)
		}
		p.names = append(p.names, name)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %v", ErrInvalidConfiguration, template, err)
	}
	p.re = re
	for i := range p.names {
		p.groups = append(p.groups, re.SubexpIndex("p"+strconv.Itoa(i)))
	}
	return p, nil
}

// Match reports whether path satisfies the template and returns the captured
// arguments in template order. Optional placeholders that did not participate
// in the match are omitted.
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil && strings.HasSuffix(path, "/") {
		// "/{page?}" compiles to an expression that matches "" rather than "/".
		path = strings.TrimSuffix(path, "/")
		m = p.re.FindStringSubmatchIndex(path)
	}
	if m == nil {
		return nil, false
	}
	params := make(Params, 0, len(p.groups))
	for i, g := range p.groups {
		start, end := m[2*g], m[2*g+1]
		if start < 0 {
			continue
		}
		params = append(params, RouteParam{Key: p.names[i], Value: path[start:end]})
	}
	return params, true
}

// Names returns the placeholder names in template order.
func (p *Pattern) Names() []string {
	return p.names
}

// Template returns the source template.
func (p *Pattern) Template() string {
	return p.template
}

// String returns the compiled expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// HasPlaceholder reports whether a template contains any {name} segment.
func HasPlaceholder(template string) bool {
	return strings.Contains(template, "{") && placeholderRe.MatchString(template)
}

// buildPath substitutes values into a template. Optional placeholders without
// a value are removed together with their leading separator. The first
// required placeholder without a value is returned as missing.
func buildPath(template string, values map[string]any) (string, string) {
	var missing string
	out := segmentRe.ReplaceAllStringFunc(template, func(m string) string {
		sep := ""
		if strings.HasPrefix(m, "/") {
			sep = "/"
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(m, sep+"{"), "}")
		name := strings.TrimSuffix(raw, "?")

		if v, ok := values[name]; ok && v != nil {
			return sep + url.PathEscape(fmt.Sprint(v))
		}
		if name != raw {
			return ""
		}
		if missing == "" {
			missing = name
		}
		return m
	})
	if out == "" {
		out = "/"
	}
	return out, missing
}

// normalizePath returns "/" followed by the path without surrounding slashes.
func normalizePath(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}

// joinPath concatenates path parts with single separators.
func joinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			segs = append(segs, p)
		}
	}
	return "/" + strings.Join(segs, "/")
}
