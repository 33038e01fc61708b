// Package main is the entry point of videocatcher.
package main

import (
	"github.com/samber/lo"
	"github.com/videocatcher/videocatcher/cmd"
	"github.com/videocatcher/videocatcher/config"
	"github.com/videocatcher/videocatcher/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
