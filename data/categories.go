package data

import (
	_ "embed"
	"fmt"

	"github.com/emzola/bookmarket/internal/validator"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// Taxonomy is the category tree books are filed under.
var Taxonomy = mustParseTaxonomy(taxonomyYAML)

// Category places a book in the taxonomy. School books carry a class,
// college and university books carry a faculty and a year.
type Category struct {
	Level   string `json:"level"`
	Faculty string `json:"faculty,omitempty"`
	Year    int    `json:"year,omitempty"`
	Class   int    `json:"class,omitempty"`
}

// Level is one branch of the taxonomy.
type Level struct {
	Name      string   `yaml:"name" json:"name"`
	Label     string   `yaml:"label" json:"label"`
	Faculties []string `yaml:"faculties" json:"faculties,omitempty"`
	MinYear   int      `yaml:"min_year" json:"min_year,omitempty"`
	MaxYear   int      `yaml:"max_year" json:"max_year,omitempty"`
	MinClass  int      `yaml:"min_class" json:"min_class,omitempty"`
	MaxClass  int      `yaml:"max_class" json:"max_class,omitempty"`
}

// UsesClass reports whether books at this level are filed by class rather than faculty and year.
func (l *Level) UsesClass() bool {
	return l.MaxClass > 0
}

// CategoryTree holds every level in declaration order.
type CategoryTree struct {
	Levels []Level `yaml:"levels" json:"levels"`
}

// Level returns the named level or nil.
func (t CategoryTree) Level(name string) *Level {
	for i := range t.Levels {
		if t.Levels[i].Name == name {
			return &t.Levels[i]
		}
	}
	return nil
}

// LevelNames lists the level names in declaration order.
func (t CategoryTree) LevelNames() []string {
	names := make([]string, 0, len(t.Levels))
	for _, l := range t.Levels {
		names = append(names, l.Name)
	}
	return names
}

// ParseTaxonomy decodes a YAML category tree and checks it is internally consistent.
func ParseTaxonomy(src []byte) (CategoryTree, error) {
	var tree CategoryTree
	if err := yaml.Unmarshal(src, &tree); err != nil {
		return CategoryTree{}, err
	}
	if len(tree.Levels) == 0 {
		return CategoryTree{}, fmt.Errorf("taxonomy: no levels defined")
	}
	seen := make(map[string]bool)
	for _, l := range tree.Levels {
		if l.Name == "" || seen[l.Name] {
			return CategoryTree{}, fmt.Errorf("taxonomy: missing or duplicate level %q", l.Name)
		}
		seen[l.Name] = true
		if l.UsesClass() {
			if l.MinClass < 1 || l.MinClass > l.MaxClass {
				return CategoryTree{}, fmt.Errorf("taxonomy: level %q has an invalid class range", l.Name)
			}
			continue
		}
		if len(l.Faculties) == 0 || l.MinYear < 1 || l.MinYear > l.MaxYear {
			return CategoryTree{}, fmt.Errorf("taxonomy: level %q needs faculties and a year range", l.Name)
		}
	}
	return tree, nil
}

func mustParseTaxonomy(src []byte) CategoryTree {
	tree, err := ParseTaxonomy(src)
	if err != nil {
		panic(err)
	}
	return tree
}

func ValidateCategory(v *validator.Validator, c Category) {
	v.Check(c.Level != "", "category.level", "must be provided")
	level := Taxonomy.Level(c.Level)
	if level == nil {
		v.Check(c.Level == "", "category.level", "is not a known level")
		return
	}
	if level.UsesClass() {
		v.Check(c.Class >= level.MinClass && c.Class <= level.MaxClass, "category.class", fmt.Sprintf("must be between %d and %d", level.MinClass, level.MaxClass))
		v.Check(c.Faculty == "", "category.faculty", "must be empty for "+level.Name+" books")
		v.Check(c.Year == 0, "category.year", "must be empty for "+level.Name+" books")
		return
	}
	v.Check(c.Faculty != "", "category.faculty", "must be provided")
	v.Check(c.Faculty == "" || validator.PermittedValue(c.Faculty, level.Faculties...), "category.faculty", "is not a known faculty for "+level.Name)
	v.Check(c.Year >= level.MinYear && c.Year <= level.MaxYear, "category.year", fmt.Sprintf("must be between %d and %d", level.MinYear, level.MaxYear))
	v.Check(c.Class == 0, "category.class", "must be empty for "+level.Name+" books")
}

// CategoryCount is the number of listings filed under a level.
type CategoryCount struct {
	Level      string `json:"level" db:"level"`
	BooksCount int64  `json:"books_count" db:"books_count"`
}

// CategorySummary pairs a taxonomy level with its listing count.
type CategorySummary struct {
	Level
	BooksCount int64 `json:"books_count"`
}
