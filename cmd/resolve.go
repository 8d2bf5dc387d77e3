package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/inline"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/player"
	"github.com/atsume-cli/atsume/progress"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	resolveCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	resolveCmd.Flags().BoolP("play", "p", false, "Play the best video once resolved")
	resolveCmd.Flags().String("show", "", "Show title to record progress under when playing")
	resolveCmd.Flags().String("episode", "", "Episode title to record when playing")
	resolveCmd.MarkFlagsRequiredTogether("show", "episode")
	resolveCmd.MarkFlagsMutuallyExclusive("json", "play")
}

// resolveCmd resolves an episode reference, asking for challenge answers on the terminal.
var resolveCmd = &cobra.Command{
	Use:   "resolve <episode-url>",
	Short: "Resolve an episode to playable videos",
	Long: `Resolve an episode to playable videos.

When the host asks for an image challenge every prompt is shown as a list of images,
each with the URL it can be viewed at. Picking an image that was already picked starts over.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema(&inline.ResolveOutput{})))
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		resolver := newResolver()
		solver := &inline.SurveySolver{
			Describe: func(o resolve.Option) string {
				return resolver.ImageURL(o.ImageID)
			},
			Options: []survey.AskOpt{survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)},
		}

		outcome, err := inline.Resolve(ctx, &inline.ResolveOptions{
			Out:       os.Stdout,
			Fetcher:   resolver,
			Solver:    solver,
			Reference: resolve.Reference(args[0]),
			Json:      lo.Must(cmd.Flags().GetBool("json")),
			Playable:  resolver.PlayableURL,
		})
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("play")) {
			return
		}

		ready, ok := outcome.(*resolve.VideoReady)
		if !ok {
			handleErr(errors.New("nothing to play"))
		}

		best, ok := ready.Best()
		if !ok {
			handleErr(errors.New("no video options"))
		}

		CheckDependencies()
		handleErr(play(ctx, resolver.PlayableURL(best),
			lo.Must(cmd.Flags().GetString("show")),
			lo.Must(cmd.Flags().GetString("episode")),
		))
	},
}

// play blocks until the player exits. The episode is recorded once the video began loading.
func play(ctx context.Context, url, show, episode string) error {
	p, err := player.New()
	if err != nil {
		return err
	}
	defer p.Close()

	title := lo.Ternary(show != "", fmt.Sprintf("%s - %s", show, episode), url)
	if err := p.Play(ctx, url, title); err != nil {
		return err
	}

	select {
	case <-p.Loaded():
		if show != "" && viper.GetBool(key.ProgressSaveOnLoad) {
			if err := progress.Open().RecordWatch(show, episode); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s progress saved\n", icon.Get(icon.Success))
		}
	case <-p.Wait():
		return nil
	case <-ctx.Done():
		return nil
	}

	select {
	case <-p.Wait():
	case <-ctx.Done():
	}

	return nil
}
