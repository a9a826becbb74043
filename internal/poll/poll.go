// Package poll holds the fixed question and option configuration for the board.
package poll

// Question is one poll topic with its fixed set of allowed options.
type Question struct {
	ID      string
	Options []string
}

// Config is an immutable table of questions. Services receive it at
// construction instead of reading scattered literals.
type Config struct {
	questions []Question
	options   map[string]map[string]struct{}
}

// NewConfig builds a Config from the given questions.
func NewConfig(questions []Question) *Config {
	options := make(map[string]map[string]struct{}, len(questions))
	for _, q := range questions {
		set := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			set[opt] = struct{}{}
		}
		options[q.ID] = set
	}
	return &Config{questions: questions, options: options}
}

// Default returns the question set this instance ships with.
func Default() *Config {
	return NewConfig([]Question{
		{ID: "q1", Options: []string{"arrival", "save"}},
		{ID: "q2", Options: []string{"death", "live"}},
		{ID: "q3", Options: []string{"exist", "extinct"}},
	})
}

// IDs returns the question IDs in declaration order.
func (c *Config) IDs() []string {
	ids := make([]string, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

// Questions returns the configured questions in declaration order.
func (c *Config) Questions() []Question {
	return c.questions
}

// Options returns the allowed options for a question and whether the
// question exists.
func (c *Config) Options(question string) ([]string, bool) {
	for _, q := range c.questions {
		if q.ID == question {
			return q.Options, true
		}
	}
	return nil, false
}

// Valid reports whether option is an allowed answer for question.
func (c *Config) Valid(question, option string) bool {
	set, ok := c.options[question]
	if !ok {
		return false
	}
	_, ok = set[option]
	return ok
}
