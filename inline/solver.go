package inline

import (
	"context"
	"fmt"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/samber/lo"
)

// Solver picks the option answering prompt. selected holds the options already
// chosen for the current challenge; choosing one of them again clears the set.
type Solver interface {
	Solve(ctx context.Context, prompt string, challenge *resolve.Challenge, selected []string) (string, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, prompt string, challenge *resolve.Challenge, selected []string) (string, error)

func (f SolverFunc) Solve(ctx context.Context, prompt string, challenge *resolve.Challenge, selected []string) (string, error) {
	return f(ctx, prompt, challenge, selected)
}

// SurveySolver asks the user on the terminal.
type SurveySolver struct {
	// Describe labels an option, typically with where its image can be viewed.
	Describe func(resolve.Option) string
	Options  []survey.AskOpt
}

func (s *SurveySolver) Solve(ctx context.Context, prompt string, challenge *resolve.Challenge, selected []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	labels := lo.Map(challenge.Options, func(o resolve.Option, _ int) string {
		mark := icon.Get(icon.Unselected)
		if slices.Contains(selected, o.ID) {
			mark = icon.Get(icon.Selected)
		}

		label := o.ImageID
		if s.Describe != nil {
			label = s.Describe(o)
		}

		return fmt.Sprintf("%s %d. %s", mark, o.Index+1, label)
	})

	question := &survey.Select{
		Message: fmt.Sprintf("(%d/%d) %s", len(selected)+1, len(challenge.Prompts), prompt),
		Options: labels,
		Help:    "Picking an option that is already selected starts over",
	}

	var choice int
	if err := survey.AskOne(question, &choice, s.Options...); err != nil {
		return "", err
	}

	return challenge.Options[choice].ID, nil
}
