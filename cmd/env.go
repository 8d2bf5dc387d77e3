package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atsume-cli/atsume/color"
	"github.com/atsume-cli/atsume/config"
	"github.com/atsume-cli/atsume/style"
	"github.com/atsume-cli/atsume/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// envVariable is an environment variable the application reads.
type envVariable struct {
	Name    string `json:"name"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
	Default any    `json:"default,omitempty"`
	Set     bool   `json:"set"`
}

// envVariables lists the config path override and one variable per config key, sorted by name.
func envVariables() []envVariable {
	value, set := os.LookupEnv(where.EnvConfigPath)
	variables := []envVariable{{Name: where.EnvConfigPath, Value: value, Set: set}}

	for _, field := range config.Default {
		value, set := os.LookupEnv(field.Env())
		variables = append(variables, envVariable{
			Name:    field.Env(),
			Key:     field.Key,
			Value:   value,
			Default: field.Value,
			Set:     set,
		})
	}

	slices.SortFunc(variables, func(a, b envVariable) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	return variables
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are not set")
	envCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")

	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
		)

		variables := lo.Filter(envVariables(), func(v envVariable, _ int) bool {
			return !(setOnly && !v.Set) && !(unsetOnly && v.Set)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(variables))
			return
		}

		for _, v := range variables {
			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.Name), "=")

			switch {
			case v.Set:
				cmd.Println(style.Fg(color.Green)(v.Value))
			case v.Key != "":
				cmd.Println(style.Faint(fmt.Sprintf("unset (default %v)", v.Default)))
			default:
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
