// ABOUTME: Word graph looks up a word's meaning, frequency and related words
// ABOUTME: The graph is a small built-in vocabulary; related links carry a strength in [0,1]

package wordgraph

import (
	"math/rand/v2"
	"sort"
	"strings"

	coreerrors "paperread-app/core/errors"
)

// Relation links a word to a related one
type Relation struct {
	Word     string  `json:"word"`
	Strength float64 `json:"strength"`
	// InGraph reports whether the related word can be looked up itself
	InGraph bool `json:"in_graph"`
}

// Entry is one word of the graph
type Entry struct {
	Word      string     `json:"word"`
	POS       string     `json:"pos"`
	Meaning   string     `json:"meaning"`
	Frequency int        `json:"frequency"`
	Related   []Relation `json:"related"`
}

// DefaultWord is shown when no word has been searched yet
const DefaultWord = "technology"

// Graph answers lookups over the built-in vocabulary
type Graph struct {
	entries map[string]entry
	pick    func(n int) int
}

// New creates a graph over the built-in vocabulary
func New() *Graph {
	return &Graph{entries: vocabulary, pick: rand.IntN}
}

// Lookup returns a word; input is trimmed and lower-cased
func (g *Graph) Lookup(word string) (Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Entry{}, &coreerrors.ValidationError{Field: "word", Message: "word must not be blank"}
	}
	e, ok := g.entries[word]
	if !ok {
		return Entry{}, &coreerrors.NotFoundError{Resource: "word", ID: word}
	}
	return g.build(word, e), nil
}

// Random returns any word of the graph
func (g *Graph) Random() Entry {
	words := g.words()
	sort.Strings(words)
	word := words[g.pick(len(words))]
	return g.build(word, g.entries[word])
}

// List returns every word, most frequent first
func (g *Graph) List() []Entry {
	list := make([]Entry, 0, len(g.entries))
	for _, word := range g.words() {
		list = append(list, g.build(word, g.entries[word]))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Frequency != list[j].Frequency {
			return list[i].Frequency > list[j].Frequency
		}
		return list[i].Word < list[j].Word
	})
	return list
}

func (g *Graph) words() []string {
	words := make([]string, 0, len(g.entries))
	for word := range g.entries {
		words = append(words, word)
	}
	return words
}

func (g *Graph) build(word string, e entry) Entry {
	related := make([]Relation, len(e.related))
	for i, r := range e.related {
		_, known := g.entries[r.word]
		related[i] = Relation{Word: r.word, Strength: r.strength, InGraph: known}
	}
	return Entry{
		Word:      word,
		POS:       e.pos,
		Meaning:   e.meaning,
		Frequency: e.frequency,
		Related:   related,
	}
}
