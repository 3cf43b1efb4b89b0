// ABOUTME: Domain models for the personal document tree and user preferences
// ABOUTME: Documents nest without a depth limit; preferences mirror the settings pages

package domain

// Document is one node of a user's Markdown document tree
type Document struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Icon     string     `json:"icon,omitempty"`
	Content  string     `json:"content"`
	Children []Document `json:"children"`
}

// AIProviderCustom needs an explicit endpoint
const AIProviderCustom = "custom"

// AIConfig is the user's AI provider configuration
type AIConfig struct {
	Provider  string `json:"provider"`
	APIKey    string `json:"apiKey"`
	CustomURL string `json:"customUrl,omitempty"`
}

// NavTabs maps navigation entries to their visibility
type NavTabs map[string]bool

// DefaultNavTabs lists every navigation entry; all are visible by default
func DefaultNavTabs() NavTabs {
	return NavTabs{
		"reading":          true,
		"articles":         true,
		"grammar":          true,
		"grammar_articles": true,
		"writing":          true,
		"words":            true,
		"dictation":        true,
		"profile":          true,
		"settings":         true,
	}
}
