package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/atsume-cli/atsume/color"
	"github.com/atsume-cli/atsume/config"
	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/style"
	"github.com/atsume-cli/atsume/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Without(lo.Keys(config.Default), args...), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return completionConfigKeys(cmd, args, toComplete)
}

func configFilePath() string {
	return filepath.Join(where.Config(), fmt.Sprintf("%s.%s", constant.Atsume, "toml"))
}

// saveConfig writes the in-memory configuration, creating the file on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}

	return err
}

// parseConfigValue converts raw to the type of the key's default value and checks
// it makes sense for that key.
func parseConfigValue(name, raw string) (any, error) {
	field, ok := config.Default[name]
	if !ok {
		return nil, errUnknownKey(name)
	}

	var value any
	switch field.Value.(type) {
	case string:
		value = raw
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", name, raw)
		}
		value = n
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", name, raw)
		}
		value = b
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", name)
	}

	if err := validateConfigValue(name, value); err != nil {
		return nil, err
	}

	return value, nil
}

func validateConfigValue(name string, value any) error {
	switch name {
	case key.RemoteURL:
		u, err := url.Parse(value.(string))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL with a host, got %q", name, value)
		}
	case key.RemoteSearchPath, key.RemoteResolvePath, key.RemoteImagePath, key.RemoteProxyPath:
		if !strings.HasPrefix(value.(string), "/") {
			return fmt.Errorf("%s must start with /", name)
		}
	case key.ScrollDebounceMs, key.RemoteRetries:
		if value.(int) <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	case key.TUIItemSpacing:
		if value.(int) < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	case key.LogsLevel:
		if _, err := logrus.ParseLevel(value.(string)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	case key.IconsVariant:
		if !lo.Contains(icon.AvailableVariants(), value.(string)) {
			return fmt.Errorf("%s must be one of %s", name, strings.Join(icon.AvailableVariants(), ", "))
		}
	case key.Player:
		if strings.TrimSpace(value.(string)) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	return nil
}

// resetConfigValues restores names, or every key when names is empty, to its default.
func resetConfigValues(names []string) ([]string, error) {
	if len(names) == 0 {
		names = lo.Keys(config.Default)
	}

	for _, name := range names {
		if _, ok := config.Default[name]; !ok {
			return nil, errUnknownKey(name)
		}
	}

	sort.Strings(names)
	for _, name := range names {
		viper.Set(name, config.Default[name].Value)
	}

	return names, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: `Inspect and change settings.
Values are stored in the config file (see "atsume where --config") and can be overridden with ATSUME_* environment variables.`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes the given keys, or all of them.
var configInfoCmd = &cobra.Command{
	Use:               "info [key...]",
	Short:             "Describe settings with their current and default values",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if len(args) > 0 {
			fields = fields[:0]
			for _, name := range lo.Uniq(args) {
				field, ok := config.Default[name]
				if !ok {
					handleErr(errUnknownKey(name))
				}
				fields = append(fields, field)
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		cmd.Print(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		}), "\n\n"))
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.SetOut(os.Stdout)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Change a setting",
	Example:           "  atsume config set remote.url https://resolver.example\n  atsume config set scroll.debounce_ms 300",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionConfigKey,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		value, err := parseConfigValue(name, args[1])
		handleErr(err)

		viper.Set(name, value)
		handleErr(saveConfig())

		cmd.Printf(
			"%s %s = %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(name),
			style.Fg(color.Yellow)(fmt.Sprint(value)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.SetOut(os.Stdout)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKey,
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := config.Default[args[0]]; !ok {
			handleErr(errUnknownKey(args[0]))
		}

		cmd.Println(viper.Get(args[0]))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
	configWriteCmd.SetOut(os.Stdout)
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		cmd.Printf("%s wrote %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
	configDeleteCmd.SetOut(os.Stdout)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file, falling back to defaults and environment",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()
		handleErr(filesystem.API().Remove(path))
		cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
	configResetCmd.SetOut(os.Stdout)
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completionConfigKeys,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			return errors.New("pass either keys or --all")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		names, err := resetConfigValues(args)
		handleErr(err)
		handleErr(saveConfig())

		for _, name := range names {
			cmd.Printf(
				"%s %s = %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(name),
				style.Fg(color.Yellow)(fmt.Sprint(config.Default[name].Value)),
			)
		}
	},
}
