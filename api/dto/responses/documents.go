// ABOUTME: Response DTOs for documents, preferences and the word graph
// ABOUTME: Trees are returned whole so clients can render them in one pass

package responses

import (
	"paperread-app/core/domain"
	"paperread-app/core/wordgraph"
)

// DocumentTreeResponse is a user's document tree
type DocumentTreeResponse struct {
	Documents []domain.Document `json:"documents"`
}

// AIConfigResponse reports the AI provider configuration
type AIConfigResponse struct {
	Configured bool             `json:"configured"`
	Config     *domain.AIConfig `json:"config,omitempty"`
}

// NavTabsResponse reports navigation visibility
type NavTabsResponse struct {
	Tabs domain.NavTabs `json:"tabs"`
}

// GraphWordsResponse lists the word graph, most frequent first
type GraphWordsResponse struct {
	Words []wordgraph.Entry `json:"words"`
}
