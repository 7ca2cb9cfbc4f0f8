package expression

// Header names of a population file.
const (
	LabelColumn      = "Label"
	PopulationColumn = "Population"
)

// Assignment places one sample in one population.
type Assignment struct {
	Label      string `csv:"Label"`
	Population string `csv:"Population"`
}

// Mapping is an ordered sample-to-population assignment. Populations are
// ordered by first appearance, which fixes the order in which they are
// analysed and reported.
type Mapping struct {
	assignments []Assignment
	byLabel     map[string]string
	populations []string
}

// NewMapping builds a Mapping. Repeating a label with the same population is
// tolerated; repeating it with a different population is a ValidationError.
func NewMapping(assignments []Assignment) (*Mapping, error) {
	m := &Mapping{
		byLabel: make(map[string]string, len(assignments)),
	}

	seenPop := make(map[string]struct{})
	for i, a := range assignments {
		if a.Label == "" {
			return nil, validationErrorf(nil, "Line %d of the population file has an empty %s", i+2, LabelColumn)
		}
		if a.Population == "" {
			return nil, validationErrorf([]string{a.Label}, "Line %d of the population file has an empty %s", i+2, PopulationColumn)
		}

		if prior, exists := m.byLabel[a.Label]; exists {
			if prior != a.Population {
				return nil, validationErrorf([]string{a.Label}, "Sample is assigned to both %q and %q", prior, a.Population)
			}
			continue
		}

		m.byLabel[a.Label] = a.Population
		m.assignments = append(m.assignments, a)

		if _, exists := seenPop[a.Population]; !exists {
			seenPop[a.Population] = struct{}{}
			m.populations = append(m.populations, a.Population)
		}
	}

	return m, nil
}

// Populations returns the distinct population names in first-appearance
// order.
func (m *Mapping) Populations() []string { return m.populations }

// Assignments returns the de-duplicated assignments in file order.
func (m *Mapping) Assignments() []Assignment { return m.assignments }

// Len is the number of distinct labels.
func (m *Mapping) Len() int { return len(m.assignments) }

// PopulationOf returns the population of sample label.
func (m *Mapping) PopulationOf(label string) (string, bool) {
	p, ok := m.byLabel[label]
	return p, ok
}
