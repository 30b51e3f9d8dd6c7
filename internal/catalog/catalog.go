// Package catalog serves the read-only list of bookable study spaces.
package catalog

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/studyspot-booking/internal/model"
)

//go:embed spaces.yaml
var defaultSpaces []byte

type Catalog struct {
	spaces []model.Space
	byID   map[int]int
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultSpaces)
}

// Parse reads a YAML list of spaces. Ids must be positive and unique.
func Parse(data []byte) (*Catalog, error) {
	var spaces []model.Space
	if err := yaml.Unmarshal(data, &spaces); err != nil {
		return nil, errors.Wrap(err, "could not parse catalog")
	}
	return New(spaces)
}

func New(spaces []model.Space) (*Catalog, error) {
	c := &Catalog{
		spaces: spaces,
		byID:   make(map[int]int, len(spaces)),
	}
	for i, s := range spaces {
		if s.ID <= 0 {
			return nil, errors.Errorf("space %q has invalid id %d", s.Name, s.ID)
		}
		if _, exists := c.byID[s.ID]; exists {
			return nil, errors.Errorf("duplicate space id %d", s.ID)
		}
		c.byID[s.ID] = i
	}
	return c, nil
}

// All returns every space in catalog order.
func (c *Catalog) All() []model.Space {
	out := make([]model.Space, len(c.spaces))
	copy(out, c.spaces)
	return out
}

func (c *Catalog) ByID(id int) (model.Space, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Space{}, false
	}
	return c.spaces[i], true
}

// Search returns the spaces whose name or location contains q, ignoring
// case. An empty query matches everything.
func (c *Catalog) Search(q string) []model.Space {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.All()
	}
	out := []model.Space{}
	for _, s := range c.spaces {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Location), q) {
			out = append(out, s)
		}
	}
	return out
}

// HasSlot reports whether the space with the given id exists and offers slot.
func (c *Catalog) HasSlot(spaceID int, slot string) bool {
	s, ok := c.ByID(spaceID)
	return ok && s.OffersSlot(slot)
}
