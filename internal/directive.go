package internal

import "strings"

// DefaultGuard is reported by directives that carry no arguments.
const DefaultGuard = "default"

// Directive is a parsed middleware reference of the form
// "name:arg1,arg2|except1,except2".
type Directive struct {
	Name   string
	Args   []string
	Except []string

	raw string
}

// ParseDirective splits a directive string. The except list is separated
// first so that arguments never absorb action names.
func ParseDirective(raw string) Directive {
	d := Directive{raw: raw}
	spec := strings.TrimSpace(raw)

	if base, except, ok := strings.Cut(spec, "|"); ok {
		spec = base
		for a := range strings.SplitSeq(except, ",") {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				d.Except = append(d.Except, a)
			}
		}
	}

	name, args, ok := strings.Cut(spec, ":")
	d.Name = strings.TrimSpace(name)
	if ok {
		for a := range strings.SplitSeq(args, ",") {
			d.Args = append(d.Args, strings.TrimSpace(a))
		}
	}
	return d
}

// Guard returns the first argument or DefaultGuard.
func (d Directive) Guard() string {
	return GuardFromArgs(d.Args)
}

// GuardFromArgs returns the guard named by middleware arguments: the first
// non-empty argument, or DefaultGuard. Middleware receive their directive
// arguments in Handle and use this to pick a guard.
func GuardFromArgs(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return DefaultGuard
}

// Skips reports whether the directive is disabled for the given controller action.
func (d Directive) Skips(action string) bool {
	if action == "" {
		return false
	}
	for _, a := range d.Except {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}

func (d Directive) String() string {
	if d.raw != "" {
		return d.raw
	}
	s := d.Name
	if len(d.Args) > 0 {
		s += ":" + strings.Join(d.Args, ",")
	}
	if len(d.Except) > 0 {
		s += "|" + strings.Join(d.Except, ",")
	}
	return s
}
