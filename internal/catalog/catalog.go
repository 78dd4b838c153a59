// Package catalog lists the groups of the medicines table that make up the
// search corpus.
package catalog

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Group is one source document of the corpus.
type Group struct {
	Number int    `yaml:"number" json:"number"`
	Name   string `yaml:"name" json:"name"`
	Href   string `yaml:"href,omitempty" json:"href"`
}

// ID is the opaque identifier the search index uses for the group.
func (g Group) ID() string {
	return strconv.Itoa(g.Number)
}

// PageName returns the file name of the group page, e.g. grupo-03.html.
func PageName(number int) string {
	return fmt.Sprintf("grupo-%02d.html", number)
}

var defaultNames = []string{
	"Analgesia",
	"Anestesia",
	"Cardiología",
	"Dermatología",
	"Endocrinología y Metabolismo",
	"Enfermedades Infecciosas y Parasitarias",
	"Enfermedades Inmunoalérgicas",
	"GASTROENTEROLOGIA",
	"GINECO-ABSTINENCIA",
	"HEMATOLOGIA",
	"INTOXICACIONES",
	"NEFROLOGIA Y UROLOGIA",
	"Neumología",
	"Neurología",
	"Nutriología",
	"Oftalmología",
	"Oncología",
	"Otorrinolaringología",
	"Planificación Familiar",
	"Psiquiatría",
	"Reumatología y Traumatología",
	"Soluciones Electrolíticas y Sustitutos del Plasma",
	"Vacunas, Toxoides, Inmunoglobulinas y Antitoxinas",
}

// Default returns the built-in catalogue of groups 1 to 23.
func Default() []Group {
	groups := make([]Group, len(defaultNames))
	for i, name := range defaultNames {
		n := i + 1
		groups[i] = Group{Number: n, Name: name, Href: PageName(n)}
	}
	return groups
}

type file struct {
	Groups []Group `yaml:"groups"`
}

// Load reads a catalogue from a YAML file of the form
//
//	groups:
//	  - number: 1
//	    name: Analgesia
//
// Missing hrefs default to PageName(number).
func Load(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("catalog %s has no groups", path)
	}

	for i := range f.Groups {
		g := &f.Groups[i]
		if g.Number <= 0 {
			return nil, fmt.Errorf("catalog entry %d: invalid group number %d", i, g.Number)
		}
		if g.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing name", i)
		}
		if g.Href == "" {
			g.Href = PageName(g.Number)
		}
	}
	return f.Groups, nil
}
