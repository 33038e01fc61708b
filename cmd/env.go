package cmd

import (
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/config"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/where"
)

// envVars lists every variable the application reads, sorted by name.
func envVars() []string {
	vars := lo.Map(lo.Values(config.Default), func(field config.Field, _ int) string {
		return field.Env()
	})
	vars = append(vars, where.EnvConfigPath)
	sort.Strings(vars)
	return lo.Uniq(vars)
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset", "u", false, "Only list variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set", "unset")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		onlySet := lo.Must(cmd.Flags().GetBool("set"))
		onlyUnset := lo.Must(cmd.Flags().GetBool("unset"))

		name := style.New().Bold(true).Foreground(color.Purple)
		for _, env := range envVars() {
			value, ok := os.LookupEnv(env)
			if (onlySet && !ok) || (onlyUnset && ok) {
				continue
			}

			cmd.Print(name.Render(env), "=")
			cmd.Println(lo.Ternary(ok, style.Fg(color.Green)(value), style.Fg(color.Red)("unset")))
		}
	},
}
