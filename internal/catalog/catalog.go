// Package catalog provides the read-only exercise and food reference data.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var catalogTOML []byte

// Category classifies an exercise by body region.
type Category string

// Exercise categories.
const (
	CategoryUpperBody Category = "Upper Body"
	CategoryLowerBody Category = "Lower Body"
	CategoryCore      Category = "Core"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryUpperBody, CategoryLowerBody, CategoryCore:
		return c, nil
	}
	return "", fmt.Errorf("unknown exercise category %q", s)
}

// Exercise is a catalog exercise.
type Exercise struct {
	ID       string   `toml:"id" json:"id"`
	Name     string   `toml:"name" json:"name"`
	Category Category `toml:"category" json:"category"`
}

// Food is a catalog food item with macros per serving.
type Food struct {
	ID       string  `toml:"id" json:"id"`
	Name     string  `toml:"name" json:"name"`
	Calories float64 `toml:"calories" json:"calories"`
	Protein  float64 `toml:"protein" json:"protein"`
	Carbs    float64 `toml:"carbs" json:"carbs"`
	Fat      float64 `toml:"fat" json:"fat"`
}

// Catalog holds the static reference data.
type Catalog struct {
	exercises []Exercise
	byID      map[string]Exercise
	foods     []Food
	frequent  []Food
}

type catalogFile struct {
	Exercises     []Exercise `toml:"exercises"`
	Foods         []Food     `toml:"foods"`
	FrequentFoods []Food     `toml:"frequent_foods"`
}

// Default returns the embedded catalog. It panics if the embedded data is invalid,
// which can only happen through a broken build.
func Default() *Catalog {
	c, err := Parse(catalogTOML)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates catalog TOML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{
		byID:     make(map[string]Exercise, len(f.Exercises)),
		foods:    f.Foods,
		frequent: f.FrequentFoods,
	}
	for _, e := range f.Exercises {
		if _, err := ParseCategory(string(e.Category)); err != nil {
			return nil, fmt.Errorf("exercise %s: %w", e.ID, err)
		}
		if e.ID == "" {
			return nil, fmt.Errorf("exercise %q has no id", e.Name)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %s", e.ID)
		}
		c.byID[e.ID] = e
		c.exercises = append(c.exercises, e)
	}
	sort.SliceStable(c.exercises, func(i, j int) bool { return idLess(c.exercises[i].ID, c.exercises[j].ID) })
	return c, nil
}

// idLess orders numeric ids numerically and everything else lexically after them.
func idLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// Exercises returns all exercises ordered by id.
func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Exercise looks up an exercise by id.
func (c *Catalog) Exercise(id string) (Exercise, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// CategoryOf returns the category of an exercise, or "" for unknown ids.
func (c *Catalog) CategoryOf(id string) Category {
	return c.byID[id].Category
}

// SearchFoods returns foods whose name contains query, case-insensitively.
// An empty query matches nothing.
func (c *Catalog) SearchFoods(query string) []Food {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Food{}
	if q == "" {
		return out
	}
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// FrequentFoods returns the quick-pick foods.
func (c *Catalog) FrequentFoods() []Food {
	out := make([]Food, len(c.frequent))
	copy(out, c.frequent)
	return out
}
