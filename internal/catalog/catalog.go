// Package catalog loads the static, versioned table of recommendation
// templates. A catalog is loaded once per run and treated as immutable
// configuration afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mhollis/finadvisor/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Eligibility is the declarative predicate attached to a catalog entry.
// Nil bounds are unconstrained.
type Eligibility struct {
	MinIncomeTier        domain.IncomeTier    `yaml:"min_income_tier,omitempty"`
	ExcludedAccountTypes []domain.AccountType `yaml:"excluded_account_types,omitempty"`
	MinUtilizationPct    *float64             `yaml:"min_utilization_pct,omitempty"`
	MaxUtilizationPct    *float64             `yaml:"max_utilization_pct,omitempty"`
	MinRecurringCount    *int                 `yaml:"min_recurring_count,omitempty"`
}

// Entry is one immutable recommendation template keyed by persona, category,
// and topic.
type Entry struct {
	ID                string                    `yaml:"id"`
	Type              domain.RecommendationType `yaml:"type"`
	Persona           domain.Persona            `yaml:"persona"`
	Category          string                    `yaml:"category"`
	Topic             string                    `yaml:"topic"`
	Title             string                    `yaml:"title"`
	Description       string                    `yaml:"description"`
	RationaleTemplate string                    `yaml:"rationale_template"`
	PartnerEquivalent bool                      `yaml:"partner_equivalent,omitempty"`
	Eligibility       Eligibility               `yaml:"eligibility,omitempty"`
}

type catalogFile struct {
	Version string  `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// Catalog indexes entries by persona. Lookups for personas without entries
// return an empty slice, never an error.
type Catalog struct {
	version string
	count   int
	entries map[domain.Persona][]Entry
}

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog from path, falling back to the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("catalog version is required")
	}

	c := &Catalog{
		version: f.Version,
		entries: make(map[domain.Persona][]Entry),
	}
	seen := make(map[string]bool)
	for i, e := range f.Entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
		c.entries[e.Persona] = append(c.entries[e.Persona], e)
		c.count++
	}
	return c, nil
}

func validateEntry(e Entry) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("id is required")
	case e.Title == "":
		return fmt.Errorf("title is required for %q", e.ID)
	case e.Category == "" || e.Topic == "":
		return fmt.Errorf("category and topic are required for %q", e.ID)
	case e.RationaleTemplate == "":
		return fmt.Errorf("rationale template is required for %q", e.ID)
	case !e.Persona.Valid():
		return fmt.Errorf("unknown persona %q for %q", e.Persona, e.ID)
	}
	if e.Type != domain.RecommendationEducation && e.Type != domain.RecommendationOffer {
		return fmt.Errorf("unknown type %q for %q", e.Type, e.ID)
	}
	return nil
}

// Version returns the catalog's declared version string.
func (c *Catalog) Version() string { return c.version }

// Len returns the total number of entries.
func (c *Catalog) Len() int { return c.count }

// ForPersona returns a copy of the entries tagged with the given persona, in
// file order.
func (c *Catalog) ForPersona(p domain.Persona) []Entry {
	return append([]Entry(nil), c.entries[p]...)
}
