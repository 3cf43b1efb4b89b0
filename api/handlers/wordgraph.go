// ABOUTME: Word graph handlers for the Huma API
// ABOUTME: Look up a word with its related words, pick one at random or list them all

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/responses"
	"paperread-app/core/wordgraph"

	"github.com/danielgtaylor/huma/v2"
)

// WordGraph answers related-word lookups
type WordGraph interface {
	Lookup(word string) (wordgraph.Entry, error)
	Random() wordgraph.Entry
	List() []wordgraph.Entry
}

// WordGraphHandler handles word graph requests
type WordGraphHandler struct {
	graph WordGraph
}

// NewWordGraphHandler creates a new word graph handler
func NewWordGraphHandler(graph WordGraph) *WordGraphHandler {
	return &WordGraphHandler{graph: graph}
}

// RegisterRoutes registers word graph routes
func (h *WordGraphHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Word graph"}

	huma.Register(api, huma.Operation{
		OperationID: "listGraphWords",
		Method:      http.MethodGet,
		Path:        "/wordgraph/words",
		Summary:     "List graph words by frequency",
		Tags:        tags,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "lookupGraphWord",
		Method:      http.MethodGet,
		Path:        "/wordgraph/words/{word}",
		Summary:     "Get a word and its related words",
		Description: "The word is matched ignoring case and surrounding spaces",
		Tags:        tags,
	}, h.Lookup)

	huma.Register(api, huma.Operation{
		OperationID: "randomGraphWord",
		Method:      http.MethodGet,
		Path:        "/wordgraph/random",
		Summary:     "Get a random word",
		Tags:        tags,
	}, h.Random)
}

// WordListOutput returns all graph words
type WordListOutput struct {
	Body responses.GraphWordsResponse
}

// WordEntryOutput returns one graph word
type WordEntryOutput struct {
	Body wordgraph.Entry
}

// WordLookupInput names the word to look up
type WordLookupInput struct {
	Word string `path:"word" doc:"Word to look up" example:"technology"`
}

// List handles GET /wordgraph/words
func (h *WordGraphHandler) List(ctx context.Context, input *struct{}) (*WordListOutput, error) {
	return &WordListOutput{Body: responses.GraphWordsResponse{Words: h.graph.List()}}, nil
}

// Lookup handles GET /wordgraph/words/{word}
func (h *WordGraphHandler) Lookup(ctx context.Context, input *WordLookupInput) (*WordEntryOutput, error) {
	entry, err := h.graph.Lookup(input.Word)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &WordEntryOutput{Body: entry}, nil
}

// Random handles GET /wordgraph/random
func (h *WordGraphHandler) Random(ctx context.Context, input *struct{}) (*WordEntryOutput, error) {
	return &WordEntryOutput{Body: h.graph.Random()}, nil
}
