package routefile

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// File is the content of one definition file.
type File struct {
	// Path is the file's location within the loaded filesystem.
	Path string `yaml:"-"`

	Middleware []string   `yaml:"middleware,omitempty"`
	Routes     []RouteDef `yaml:"routes,omitempty"`
	Groups     []GroupDef `yaml:"groups,omitempty"`
}

// RouteDef declares a single route.
type RouteDef struct {
	Method     string            `yaml:"method,omitempty"`
	Methods    []string          `yaml:"methods,omitempty"`
	Path       string            `yaml:"path"`
	Handler    string            `yaml:"handler"`
	Name       string            `yaml:"name,omitempty"`
	Namespace  string            `yaml:"namespace,omitempty"`
	Domain     string            `yaml:"domain,omitempty"`
	Middleware []string          `yaml:"middleware,omitempty"`
	Where      map[string]string `yaml:"where,omitempty"`
}

// Verbs returns the declared methods, uppercased. A route declaring
// neither method nor methods answers GET.
func (d RouteDef) Verbs() []string {
	verbs := slices.Clone(d.Methods)
	if d.Method != "" {
		verbs = append([]string{d.Method}, verbs...)
	}
	if len(verbs) == 0 {
		return []string{"GET"}
	}
	for i, v := range verbs {
		verbs[i] = strings.ToUpper(strings.TrimSpace(v))
	}
	return verbs
}

// GroupDef declares shared attributes for nested routes and groups.
type GroupDef struct {
	Prefix     string     `yaml:"prefix,omitempty"`
	Namespace  string     `yaml:"namespace,omitempty"`
	Domain     string     `yaml:"domain,omitempty"`
	Name       string     `yaml:"name,omitempty"`
	Middleware []string   `yaml:"middleware,omitempty"`
	Routes     []RouteDef `yaml:"routes,omitempty"`
	Groups     []GroupDef `yaml:"groups,omitempty"`
}

// Parse decodes and validates a single definition file.
func Parse(path string, data []byte) (*File, error) {
	f := &File{Path: path}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load parses every file in fsys matching pattern, sorted by path.
func Load(fsys fs.FS, pattern string) ([]*File, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoFiles, pattern)
	}
	slices.Sort(matches)

	files := make([]*File, 0, len(matches))
	for _, path := range matches {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("routefile: read %s: %w", path, err)
		}
		f, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Validate reports every incomplete route in the file.
func (f *File) Validate() error {
	var errs []error
	validateRoutes(f.Path, f.Routes, &errs)
	validateGroups(f.Path, f.Groups, &errs)
	if len(errs) > 0 {
		return errors.Join(ErrInvalidRoute, errors.Join(errs...))
	}
	return nil
}

// Len returns the number of route definitions, including nested ones.
func (f *File) Len() int {
	return len(f.Routes) + countGroups(f.Groups)
}

func countGroups(groups []GroupDef) int {
	n := 0
	for _, g := range groups {
		n += len(g.Routes) + countGroups(g.Groups)
	}
	return n
}

func validateRoutes(file string, routes []RouteDef, errs *[]error) {
	for i, r := range routes {
		switch {
		case r.Path == "":
			*errs = append(*errs, fmt.Errorf("%s: route #%d: path is required", file, i))
		case r.Handler == "":
			*errs = append(*errs, fmt.Errorf("%s: %s: handler is required", file, r.Path))
		case !strings.Contains(r.Handler, "@"):
			*errs = append(*errs, fmt.Errorf("%s: %s: handler %q must be Controller@method", file, r.Path, r.Handler))
		}
	}
}

func validateGroups(file string, groups []GroupDef, errs *[]error) {
	for _, g := range groups {
		validateRoutes(file, g.Routes, errs)
		validateGroups(file, g.Groups, errs)
	}
}
