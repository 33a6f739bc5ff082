package highlight

// DefaultTextColor is the color of unhighlighted text.
const DefaultTextColor = "000000"

// Rule assigns one color to a group of keywords.
type Rule struct {
	Color    string   `yaml:"color"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules is the built-in keyword table, grouped by color.
var DefaultRules = []Rule{
	// Logical connectives.
	{Color: "FF00FF", Keywords: []string{"and", "or", "not", "if", "then", "else", "when", "while", "for", "in", "with", "by"}},
	// Prepositions.
	{Color: "007ACC", Keywords: []string{"to", "into", "from", "of", "at", "on", "through", "via", "over", "under", "between", "among"}},
	// Modal and linking verbs.
	{Color: "00D8B0", Keywords: []string{"is", "are", "was", "were", "will", "can", "should", "must", "may", "could", "would"}},
	{Color: "FFD700", Keywords: []string{
		"strategic", "management", "analysis", "framework", "methodology", "approach",
		"implementation", "evaluation", "assessment", "development", "research", "study",
		"process", "system", "model", "theory",
	}},
	{Color: "A6E22E", Keywords: []string{
		"human", "people", "individual", "person", "employee", "worker", "staff",
		"team", "group", "organization", "company", "business",
	}},
	{Color: "00BFFF", Keywords: []string{
		"resource", "data", "information", "knowledge", "skill", "capability",
		"capacity", "asset", "tool", "method", "technique", "solution",
	}},
	// Quantifiers and emphasis.
	{Color: "FF8C00", Keywords: []string{
		"all", "some", "many", "few", "most", "several", "various", "multiple",
		"single", "first", "second", "third", "primary", "secondary", "main",
		"key", "important", "critical", "essential", "significant",
	}},
}
