package version

import (
	"context"
	"fmt"
	"time"

	"github.com/atsume-cli/atsume/color"
	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/style"
	"github.com/atsume-cli/atsume/util"
	"github.com/spf13/viper"
)

// Notify prints a banner when a newer release exists. It is silent on any failure.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/atsume-cli/atsume/releases/tag/v"+latest),
	)
}
