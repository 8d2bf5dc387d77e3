// Package cmd implements the command-line interface for atsume.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/player"
	"github.com/atsume-cli/atsume/progress"
	"github.com/atsume-cli/atsume/query"
	"github.com/atsume-cli/atsume/style"
	"github.com/atsume-cli/atsume/tui"
	"github.com/atsume-cli/atsume/util"
	"github.com/atsume-cli/atsume/version"
	"github.com/atsume-cli/atsume/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("save-progress", "P", true, "Remember the last watched episode of every show")
	lo.Must0(viper.BindPFlag(key.ProgressSaveOnLoad, rootCmd.PersistentFlags().Lookup("save-progress")))

	rootCmd.PersistentFlags().StringP("remote", "R", "", "Base URL of the resolution host")
	lo.Must0(viper.BindPFlag(key.RemoteURL, rootCmd.PersistentFlags().Lookup("remote")))

	rootCmd.Flags().StringP("query", "q", "", "Search this title right away")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(context.Background())
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd opens the interactive interface.
var rootCmd = &cobra.Command{
	Use:   constant.Atsume,
	Short: "A terminal front-end for finding, resolving and watching anime",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(style.HiRed).Render("    - A terminal front-end for finding, resolving and watching anime"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := tui.Options{
			Query:     lo.Must(cmd.Flags().GetString("query")),
			Searcher:  newSearcher(),
			Resolver:  newResolver(),
			Metadata:  metadataFinder(),
			Recorder:  progress.Open(),
			Images:    imageCache(),
			NewPlayer: player.New,
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
