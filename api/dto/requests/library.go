// ABOUTME: Request DTOs for article import and dictation endpoints
// ABOUTME: Import accepts either a url or pasted text

package requests

import "strings"

// ImportRequest imports an article from a url or from text
type ImportRequest struct {
	URL   string `json:"url,omitempty" doc:"Page to extract the article from"`
	Title string `json:"title,omitempty" doc:"Title for pasted text; taken from the first line when empty"`
	Text  string `json:"text,omitempty" doc:"Pasted article text"`
}

// FromURL reports whether the request names a url rather than text
func (r *ImportRequest) FromURL() bool {
	return strings.TrimSpace(r.URL) != ""
}

// AnswerRequest submits a dictation answer
type AnswerRequest struct {
	Answer string `json:"answer" doc:"Typed English answer"`
}
