package routecache

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is bumped whenever the encoded layout changes.
const SchemaVersion = 1

// Record is the serializable form of one route.
type Record struct {
	Path        string            `yaml:"path"`
	Handler     string            `yaml:"handler"`
	Name        string            `yaml:"name,omitempty"`
	Namespace   string            `yaml:"namespace,omitempty"`
	Domain      string            `yaml:"domain,omitempty"`
	Middleware  []string          `yaml:"middleware,omitempty"`
	Constraints map[string]string `yaml:"where,omitempty"`
}

// Table is a serializable route table.
type Table struct {
	Version    int                 `yaml:"version"`
	CreatedAt  time.Time           `yaml:"created_at"`
	Middleware []string            `yaml:"middleware,omitempty"`
	Routes     map[string][]Record `yaml:"routes"`
	Names      map[string]string   `yaml:"names,omitempty"`
}

// NewTable creates an empty table stamped with the current schema version.
func NewTable() *Table {
	return &Table{
		Version:   SchemaVersion,
		CreatedAt: time.Now().UTC(),
		Routes:    make(map[string][]Record),
		Names:     make(map[string]string),
	}
}

// Add appends a record under method.
func (t *Table) Add(method string, r Record) {
	if t.Routes == nil {
		t.Routes = make(map[string][]Record)
	}
	t.Routes[method] = append(t.Routes[method], r)
}

// Methods returns the methods present in the table, sorted.
func (t *Table) Methods() []string {
	methods := make([]string, 0, len(t.Routes))
	for m := range t.Routes {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// Len returns the total number of records.
func (t *Table) Len() int {
	n := 0
	for _, records := range t.Routes {
		n += len(records)
	}
	return n
}

// Validate checks the schema version and record completeness.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	if t.Version != SchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, t.Version, SchemaVersion)
	}
	var errs []error
	for method, records := range t.Routes {
		for i, r := range records {
			if r.Path == "" {
				errs = append(errs, fmt.Errorf("%s route #%d: empty path", method, i))
			}
			if r.Handler == "" {
				errs = append(errs, fmt.Errorf("%s %s: empty handler", method, r.Path))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(ErrInvalidTable, errors.Join(errs...))
	}
	return nil
}

// Encode serializes a table.
func Encode(t *Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b, err := yaml.Marshal(t)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return b, nil
}

// Decode parses and validates a table.
func Decode(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Routes == nil {
		t.Routes = make(map[string][]Record)
	}
	if t.Names == nil {
		t.Names = make(map[string]string)
	}
	return &t, nil
}
