package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/progress"
	"github.com/atsume-cli/atsume/style"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func completionShows(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return progress.Open().Shows(), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.SetOut(os.Stdout)
}

// progressCmd manages the last watched episode of every show.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Manage the last watched episode of every show",
}

func init() {
	progressCmd.AddCommand(progressListCmd)
	progressListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
}

// progressListCmd prints every recorded show.
var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every show with its last watched episode",
	Run: func(cmd *cobra.Command, args []string) {
		recorder := progress.Open()

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(recorder.All()))
			return
		}

		shows := recorder.Shows()
		if len(shows) == 0 {
			cmd.Println(style.Faint("Nothing watched yet"))
			return
		}

		cmd.Println(renderProgress(recorder, shows))
	},
}

func renderProgress(recorder *progress.Recorder, shows []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Show", "Last watched"})

	for i, show := range shows {
		tw.AppendRow(table.Row{i + 1, show, recorder.LastWatched(show).OrEmpty()})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func init() {
	progressCmd.AddCommand(progressGetCmd)
}

// progressGetCmd prints the last watched episode of a show.
var progressGetCmd = &cobra.Command{
	Use:               "get <show>",
	Short:             "Print the last watched episode of a show",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionShows,
	Run: func(cmd *cobra.Command, args []string) {
		episode, ok := progress.Open().LastWatched(args[0]).Get()
		if !ok {
			handleErr(fmt.Errorf("no progress for %s", args[0]))
		}

		cmd.Println(episode)
	},
}

func init() {
	progressCmd.AddCommand(progressSetCmd)
}

// progressSetCmd records an episode by hand.
var progressSetCmd = &cobra.Command{
	Use:               "set <show> <episode>",
	Short:             "Mark an episode as the last watched one of a show",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionShows,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(progress.Open().RecordWatch(args[0], args[1]))
		cmd.Printf("%s %s %s\n", icon.Get(icon.Success), style.Bold(args[0]), style.Faint(args[1]))
	},
}

func init() {
	progressCmd.AddCommand(progressRemoveCmd)
}

// progressRemoveCmd forgets a show.
var progressRemoveCmd = &cobra.Command{
	Use:               "remove <show>",
	Aliases:           []string{"rm"},
	Short:             "Forget the progress of a show",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionShows,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(progress.Open().Forget(args[0]))
		cmd.Printf("%s %s forgotten\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}
