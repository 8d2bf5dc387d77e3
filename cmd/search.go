package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/inline"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/query"
	"github.com/atsume-cli/atsume/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	searchCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	searchCmd.Flags().BoolP("metadata", "m", false, "Include Anilist metadata for every show")
	searchCmd.Flags().StringP("show", "s", "", "Keep only one show: first, last, exact or an index")
	searchCmd.Flags().StringP("episodes", "e", "", "Keep only some episodes: first, last, all, an index, a range from-to or @substring@")
	searchCmd.Flags().StringP("output", "o", "", "Write the output to this file instead of stdout")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("show", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"first", "last", "exact"}, cobra.ShellCompDirectiveNoFileComp
	}))
	searchCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// searchCmd prints the shows matching a title without the interactive interface.
var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search the resolution host for shows and list their episodes",
	Long: `Search the resolution host for shows and list their episodes.

Show selectors:
  first - first show in the list
  last - last show in the list
  exact - the show whose title is the query, ignoring case
  [number] - select a show by index (starting from 0)

Episode selectors:
  first - first episode in the list
  last - last episode in the list
  all - all episodes in the list
  [number] - select an episode by index (starting from 0)
  [from]-[to] - select episodes by range
  @[substring]@ - select episodes by name substring`,
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema(&inline.SearchOutput{})))
			return
		}

		title := args[0]
		out := outputFile(lo.Must(cmd.Flags().GetString("output")))
		defer out.Close()

		options := &inline.SearchOptions{
			Out:      out,
			Searcher: newSearcher(),
			Query:    title,
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Metadata: mo.None[source.MetadataFinder](),
		}

		if lo.Must(cmd.Flags().GetBool("metadata")) || viper.GetBool(key.MetadataFetchAnilist) && options.Json {
			options.Metadata = mo.Some[source.MetadataFinder](anilist.Default())
		}

		if flag := lo.Must(cmd.Flags().GetString("show")); flag != "" {
			picker, err := inline.ParseShowPicker(flag, title)
			handleErr(err)
			options.ShowPicker = mo.Some(picker)
		}

		if flag := lo.Must(cmd.Flags().GetString("episodes")); flag != "" {
			filter, err := inline.ParseEpisodesFilter(flag)
			handleErr(err)
			options.EpisodesFilter = mo.Some(filter)
		}

		handleErr(inline.Search(context.Background(), options))

		if err := query.Remember(title, query.Searched); err != nil {
			handleErr(err)
		}
	},
}
