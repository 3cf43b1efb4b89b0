// ABOUTME: Domain models for dictation practice
// ABOUTME: Questions, answers and running statistics

package domain

// QuestionType classifies a dictation question
type QuestionType string

const (
	QuestionWord     QuestionType = "word"
	QuestionPhrase   QuestionType = "phrase"
	QuestionSentence QuestionType = "sentence"
)

// DictationQuestion asks for the English form of a Chinese prompt
type DictationQuestion struct {
	Type     QuestionType `json:"type"`
	Chinese  string       `json:"chinese"`
	English  string       `json:"english"`
	Phonetic string       `json:"phonetic"`
}

// DictationResult is the outcome of answering or skipping a question
type DictationResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// DictationStats holds running totals
type DictationStats struct {
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
	Accuracy int `json:"accuracy"`
}

// DictationView is the client-visible state of one practice run. The English
// answer is only included once the current question has been answered.
type DictationView struct {
	ID         string           `json:"id"`
	Index      int              `json:"index"`
	Total      int              `json:"total"`
	Type       QuestionType     `json:"type,omitempty"`
	Chinese    string           `json:"chinese,omitempty"`
	Answered   bool             `json:"answered"`
	Completed  bool             `json:"completed"`
	LastResult *DictationResult `json:"last_result,omitempty"`
	Stats      DictationStats   `json:"stats"`
}
