package site

// Profile holds the biographical content rendered on the portfolio page.
// It is loaded once at startup from a yaml file and treated as immutable.
type Profile struct {
	Name     string    `yaml:"name"`
	Role     string    `yaml:"role"`
	Tagline  string    `yaml:"tagline"`
	About    string    `yaml:"about"`
	Skills   []string  `yaml:"skills"`
	Projects []Project `yaml:"projects"`
	Social   []Link    `yaml:"social"`
}

// Project is one portfolio entry.
type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// Link is a labeled external URL.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}
