package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhollis/finadvisor/internal/domain"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Version())
	require.Greater(t, c.Len(), 0)

	// Every non-default persona has enough education candidates to satisfy
	// the selection minimum, and at least one offer.
	for _, p := range domain.Personas() {
		if p == domain.PersonaGeneral {
			require.Empty(t, c.ForPersona(p), "default persona must have no templates")
			continue
		}
		entries := c.ForPersona(p)
		var education, offers int
		for _, e := range entries {
			switch e.Type {
			case domain.RecommendationEducation:
				education++
			case domain.RecommendationOffer:
				offers++
			}
		}
		require.GreaterOrEqual(t, education, 3, "persona %s", p)
		require.GreaterOrEqual(t, offers, 1, "persona %s", p)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
version: "test-1"
entries:
  - id: edu-1
    type: education
    persona: high_utilization
    category: credit
    topic: utilization
    title: "Title"
    rationale_template: "Utilization is {max_utilization}."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test-1", c.Version())
	require.Len(t, c.ForPersona(domain.PersonaHighUtilization), 1)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"unknown persona": `
version: "v"
entries:
  - {id: a, type: education, persona: nope, category: c, topic: t, title: T, rationale_template: R}
`,
		"unknown type": `
version: "v"
entries:
  - {id: a, type: advert, persona: general, category: c, topic: t, title: T, rationale_template: R}
`,
		"duplicate id": `
version: "v"
entries:
  - {id: a, type: education, persona: general, category: c, topic: t, title: T, rationale_template: R}
  - {id: a, type: education, persona: general, category: c, topic: t2, title: T2, rationale_template: R2}
`,
		"missing version": `
entries: []
`,
		"missing template": `
version: "v"
entries:
  - {id: a, type: education, persona: general, category: c, topic: t, title: T}
`,
	}

	for name, content := range cases {
		_, err := parse([]byte(content))
		require.Error(t, err, name)
	}
}

func TestForPersonaUnknownIsEmpty(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Empty(t, c.ForPersona(domain.Persona("unheard_of")))
}
