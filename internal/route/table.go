package route

import (
	"fmt"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"
)

type Table []Descriptor

// Check reports every malformed descriptor at once.
func (t Table) Check() error {
	var err error
	seen := make(map[string]string, len(t))

	for i := range t {
		desc := &t[i]
		if desc.Name == "" || desc.Method == "" || desc.Pattern == "" {
			err = multierr.Append(err, fmt.Errorf("descriptor %d: name, method and pattern are required", i))
			continue
		}

		key := desc.Method + " " + desc.Pattern
		if other, ok := seen[key]; ok {
			err = multierr.Append(err, fmt.Errorf("descriptor %s: duplicate route %s (already used by %s)", desc.Name, key, other))
		}
		seen[key] = desc.Name

		if desc.Exec == nil && desc.UpstreamPath == "" {
			err = multierr.Append(err, fmt.Errorf("descriptor %s: upstream path is required without a custom exec", desc.Name))
		}

		local := Placeholders(desc.Pattern)
		for _, name := range Placeholders(desc.UpstreamPath) {
			if !slices.Contains(local, name) {
				err = multierr.Append(err, fmt.Errorf("descriptor %s: upstream placeholder %q not in pattern %s", desc.Name, name, desc.Pattern))
			}
		}
	}

	return err
}

func (t Table) Mount(r chi.Router, d *Dispatcher) error {
	if err := t.Check(); err != nil {
		return err
	}
	for i := range t {
		desc := &t[i]
		r.Method(desc.Method, desc.Pattern, d.Handler(desc))
	}
	return nil
}
