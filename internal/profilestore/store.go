// =============================================================================
// Political Fund Report Compiler - Profile Store
// =============================================================================
//
// The profile store reads organization report profiles and organization slugs
// from a YAML file. Example:
//
//   organizations:
//     - id: org-1
//       slug: mirai
//   profiles:
//     - organization_id: org-1
//       financial_year: 2025
//       official_name: 未来政治研究会
//       ...
//
// =============================================================================

package profilestore

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// Organization maps an organization id to the slug used in file names.
type Organization struct {
	ID   string `yaml:"id"`
	Slug string `yaml:"slug"`
}

type document struct {
	Organizations []Organization                    `yaml:"organizations"`
	Profiles      []types.OrganizationReportProfile `yaml:"profiles"`
}

type profileKey struct {
	organizationID string
	year           int
}

// Store is a read-only, in-memory profile repository.
type Store struct {
	slugs    map[string]string
	profiles map[profileKey]types.OrganizationReportProfile
}

// Load reads the store from a YAML file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return Parse(data)
}

// Parse builds a store from YAML bytes. Duplicate organization ids or
// duplicate (organization, year) profiles are rejected.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	s := &Store{
		slugs:    make(map[string]string, len(doc.Organizations)),
		profiles: make(map[profileKey]types.OrganizationReportProfile, len(doc.Profiles)),
	}
	for _, o := range doc.Organizations {
		if o.ID == "" {
			return nil, fmt.Errorf("organization without id")
		}
		if _, dup := s.slugs[o.ID]; dup {
			return nil, fmt.Errorf("duplicate organization %q", o.ID)
		}
		s.slugs[o.ID] = o.Slug
	}
	for _, p := range doc.Profiles {
		key := profileKey{p.OrganizationID, p.FinancialYear}
		if _, dup := s.profiles[key]; dup {
			return nil, fmt.Errorf("duplicate profile for organization %q, year %d", p.OrganizationID, p.FinancialYear)
		}
		s.profiles[key] = p
	}
	return s, nil
}

// FindByOrganizationAndYear returns a copy of the profile, or nil when none
// exists.
func (s *Store) FindByOrganizationAndYear(ctx context.Context, organizationID string, year int) (*types.OrganizationReportProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := s.profiles[profileKey{organizationID, year}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetOrganizationSlug returns the slug, or "" for unknown organizations.
func (s *Store) GetOrganizationSlug(ctx context.Context, organizationID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.slugs[organizationID], nil
}
