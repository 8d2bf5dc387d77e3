package resolve

import "github.com/samber/lo"

// Accumulator tracks the answers given so far to the current challenge.
//
// Selecting an option that is already part of the answer list does not toggle it:
// it throws away every answer collected for the challenge and the user starts over.
type Accumulator struct {
	prompts int
	answers []string
}

// NewAccumulator returns an accumulator for a challenge with the given number of prompts.
func NewAccumulator(prompts int) *Accumulator {
	return &Accumulator{prompts: prompts}
}

// Begin rebinds the accumulator to a freshly received challenge.
func (a *Accumulator) Begin(prompts int) {
	a.prompts = prompts
	a.Reset()
}

// Select records optionID as the answer to the next unanswered prompt.
// It reports whether the selection cleared the answer list instead.
// Selections made after the answer set is complete are ignored.
func (a *Accumulator) Select(optionID string) (cleared bool) {
	if lo.Contains(a.answers, optionID) {
		a.Reset()
		return true
	}

	if a.IsComplete() {
		return false
	}

	a.answers = append(a.answers, optionID)
	return false
}

// IsComplete reports whether every prompt has an answer.
func (a *Accumulator) IsComplete() bool {
	return a.prompts > 0 && len(a.answers) == a.prompts
}

// Reset clears all collected answers.
func (a *Accumulator) Reset() {
	a.answers = nil
}

// Len returns the number of answers collected so far, which is also the index of the prompt being answered.
func (a *Accumulator) Len() int {
	return len(a.answers)
}

// Prompts returns the prompt count of the challenge being answered.
func (a *Accumulator) Prompts() int {
	return a.prompts
}

// Selected returns a copy of the selected option identifiers in selection order.
func (a *Accumulator) Selected() []string {
	return append([]string(nil), a.answers...)
}

// Answers pairs the selected options with the challenge prompts by position.
func (a *Accumulator) Answers(challenge *Challenge) []Answer {
	answers := make([]Answer, len(a.answers))
	for i, id := range a.answers {
		answers[i].OptionID = id
		if challenge != nil && i < len(challenge.Prompts) {
			answers[i].PromptText = challenge.Prompts[i]
		}
	}

	return answers
}
