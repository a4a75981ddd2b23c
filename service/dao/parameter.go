package dao

// Parameter is a named List filter.
type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Matches reports whether actual satisfies the parameter value, which is
// either a single string or a list of accepted strings.
func (p *Parameter) Matches(actual string) bool {
	if p == nil {
		return true
	}
	switch expected := p.Value.(type) {
	case string:
		return expected == actual
	case []string:
		for _, candidate := range expected {
			if candidate == actual {
				return true
			}
		}
		return false
	}
	return true
}
