package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the configured player is not on the PATH.
func CheckDependencies() {
	name := lo.Ternary(viper.GetString(key.Player) == "", "mpv", viper.GetString(key.Player))
	if _, err := exec.LookPath(name); err != nil {
		printMissingDependencyError(name)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + dep
	case constant.Linux:
		installCmd = "sudo apt install " + dep
	case constant.Windows:
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
