// Package catalog resolves field and specialty IDs to the directory's
// display names. The registry is static data: filters sent to the scrape
// worker are matched by name against the labels rendered on result rows.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Specialty is one second-level classification under a field.
type Specialty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field is a top-level research area with its specialties.
type Field struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Specialties []Specialty `json:"specialties"`
}

// Catalog is a field/specialty name registry keyed by ID.
type Catalog struct {
	fields []Field
	byID   map[int]Field
}

// New builds a catalog over the given fields.
func New(fields []Field) *Catalog {
	byID := make(map[int]Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	return &Catalog{fields: fields, byID: byID}
}

// Default returns the built-in registry.
func Default() *Catalog { return New(defaultFields) }

// Load reads a registry from a JSON file, falling back to the built-in
// one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(fields), nil
}

// Fields returns all registered fields.
func (c *Catalog) Fields() []Field { return c.fields }

// Resolve maps a field ID and specialty IDs to display names. The
// sentinel specialty ID "all" expands to every specialty of the field.
// Unknown specialty IDs are skipped; an unknown field ID is an error.
func (c *Catalog) Resolve(fieldID int, specialtyIDs []string) (string, []string, error) {
	f, ok := c.byID[fieldID]
	if !ok {
		return "", nil, fmt.Errorf("catalog: unknown field id %d", fieldID)
	}
	for _, id := range specialtyIDs {
		if id == "all" {
			names := make([]string, 0, len(f.Specialties))
			for _, s := range f.Specialties {
				names = append(names, s.Name)
			}
			return f.Name, names, nil
		}
	}
	var names []string
	for _, s := range f.Specialties {
		for _, id := range specialtyIDs {
			if s.ID == id || s.ID == normalizeID(id) {
				names = append(names, s.Name)
				break
			}
		}
	}
	return f.Name, names, nil
}

// normalizeID lets numeric IDs match whether the caller sent "7" or 7
// serialized through JSON.
func normalizeID(id string) string {
	if n, err := strconv.Atoi(id); err == nil {
		return strconv.Itoa(n)
	}
	return id
}
