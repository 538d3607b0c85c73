package tagdict

// File is the serializable content of a tag dictionary. The YAML data files
// in a dictionary directory each populate one section; the gob cache and the
// importer serialize the whole structure at once.
type File struct {
	Rules               []RuleSpec        `yaml:"rules"`
	Deprecations        []DeprecationSpec `yaml:"deprecations"`
	Groups              []GroupSpec       `yaml:"groups"`
	AllowedCombinations [][]string        `yaml:"allowed_combinations"`
	Recommended         []RecommendedSpec `yaml:"recommended"`
	Descriptions        []KeyDoc          `yaml:"descriptions"`
}

// RuleSpec is one phrase -> tags mapping as written in rules.yaml.
type RuleSpec struct {
	Phrase       string            `yaml:"phrase"`
	Tags         map[string]string `yaml:"tags"`
	Confidence   float64           `yaml:"confidence"`
	ElementTypes []string          `yaml:"element_types,omitempty"`
}

// DeprecationSpec maps a superseded key/value pair to its replacement.
// An empty Value deprecates every value of the key.
type DeprecationSpec struct {
	Key         string            `yaml:"key"`
	Value       string            `yaml:"value,omitempty"`
	Replacement map[string]string `yaml:"replacement"`
}

// GroupSpec declares a primary-feature group: keys that classify what an
// element fundamentally is. Two tags from different groups on one element is
// a conflict unless the combination is whitelisted.
type GroupSpec struct {
	ID   string   `yaml:"id"`
	Keys []string `yaml:"keys"`
}

// RecommendedSpec lists co-tags suggested when a given primary tag is
// present. An empty Value applies to every value of Key; Key "*" applies to
// every tag set.
type RecommendedSpec struct {
	Key     string       `yaml:"key"`
	Value   string       `yaml:"value,omitempty"`
	Suggest []CoTagGuide `yaml:"suggest"`
}

// CoTagGuide is one suggested co-occurring tag with its static confidence.
// Required marks co-tags whose absence the validator reports.
type CoTagGuide struct {
	Key        string  `yaml:"key"`
	Value      string  `yaml:"value,omitempty"`
	Confidence float64 `yaml:"confidence"`
	Reason     string  `yaml:"reason"`
	Required   bool    `yaml:"required,omitempty"`
}

// KeyDoc documents a tag key and its common values.
type KeyDoc struct {
	Key         string     `yaml:"key" json:"key"`
	Description string     `yaml:"description" json:"description"`
	Wiki        string     `yaml:"wiki,omitempty" json:"wiki,omitempty"`
	Values      []ValueDoc `yaml:"values,omitempty" json:"values,omitempty"`
}

// ValueDoc documents one value of a key.
type ValueDoc struct {
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description" json:"description"`
}

// merge appends the sections of other into f.
func (f *File) merge(other *File) {
	f.Rules = append(f.Rules, other.Rules...)
	f.Deprecations = append(f.Deprecations, other.Deprecations...)
	f.Groups = append(f.Groups, other.Groups...)
	f.AllowedCombinations = append(f.AllowedCombinations, other.AllowedCombinations...)
	f.Recommended = append(f.Recommended, other.Recommended...)
	f.Descriptions = append(f.Descriptions, other.Descriptions...)
}
