package domain

// Repository is the subset of a GitHub repository record the site uses.
type Repository struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     *string  `json:"description"`
	HTMLURL         string   `json:"html_url"`
	Homepage        *string  `json:"homepage"`
	Language        *string  `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	Topics          []string `json:"topics"`
	UpdatedAt       string   `json:"updated_at"`
}

// ProjectSummary is the reshaped repository served to the site.
type ProjectSummary struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"fullName"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Homepage    *string  `json:"homepage"`
	Language    *string  `json:"language"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updatedAt"`
}

const (
	// DefaultDescription replaces a missing or empty repository description.
	DefaultDescription = "No description available"

	// ExcludedNameFragment marks administrative repositories (org profile, templates).
	ExcludedNameFragment = ".github"
)
