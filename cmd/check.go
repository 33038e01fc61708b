package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/style"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the extractor is installed",
	Run: func(cmd *cobra.Command, args []string) {
		path := CheckDependencies()
		fmt.Printf("%s yt-dlp found at %s\n", icon.Get(icon.Success), path)
	},
}

// CheckDependencies exits with installation hints unless the yt-dlp executable can be found.
func CheckDependencies() string {
	name := viper.GetString(key.ExtractBinary)
	if name == "" {
		name = "yt-dlp"
	}

	path, err := exec.LookPath(name)
	if err != nil {
		printMissingDependencyError(name)
		os.Exit(1)
	}
	return path
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install yt-dlp"
	case "linux":
		installCmd = "python3 -m pip install -U yt-dlp"
	case "windows":
		installCmd = "winget install yt-dlp"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Alert).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Alert).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The extractor '%s' was not found in your PATH.\nSet %s to its location if it is installed elsewhere.", dep, key.ExtractBinary))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Accent).Bold(true).Render(installCmd))
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
