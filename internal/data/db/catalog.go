package db

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

type CatalogEntry struct {
	Name   string   `yaml:"name"`
	Phases []string `yaml:"phases"`
}

type Catalog struct {
	Methodologies []CatalogEntry `yaml:"methodologies"`
}

// DefaultCatalog parses the embedded phase catalog.
func DefaultCatalog() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse phase catalog: %w", err)
	}
	for _, m := range c.Methodologies {
		if strings.TrimSpace(m.Name) == "" || len(m.Phases) == 0 {
			return nil, fmt.Errorf("phase catalog: methodology %q has no phases", m.Name)
		}
	}
	return &c, nil
}

// Size is the number of phases defined for methodology.
func (c *Catalog) Size(methodology string) int {
	for _, m := range c.Methodologies {
		if m.Name == methodology {
			return len(m.Phases)
		}
	}
	return 0
}

// SeedCatalog inserts catalog phases that are not present yet, matching names case-insensitively.
// Returns the number of inserted phases.
func SeedCatalog(tx *gorm.DB, c *Catalog) (int, error) {
	inserted := 0
	for _, m := range c.Methodologies {
		for i, name := range m.Phases {
			var n int64
			if err := tx.Model(&domain.Phase{}).
				Where("methodology = ? AND LOWER(TRIM(name)) = ?", m.Name, strings.ToLower(strings.TrimSpace(name))).
				Count(&n).Error; err != nil {
				return inserted, err
			}
			if n > 0 {
				continue
			}
			p := &domain.Phase{Name: name, Methodology: m.Name, DefaultOrder: i + 1}
			if err := tx.Create(p).Error; err != nil {
				return inserted, fmt.Errorf("seed phase %s/%s: %w", m.Name, name, err)
			}
			inserted++
		}
	}
	return inserted, nil
}
