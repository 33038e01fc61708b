package version

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
)

// Notify prints a banner when a newer release exists. Lookup failures are silent.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
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
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+latest),
	)
}
