// Package main is the entry point for atsume.
package main

import (
	"github.com/atsume-cli/atsume/cmd"
	"github.com/atsume-cli/atsume/config"
	"github.com/atsume-cli/atsume/internal/cache"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.New(where.Images()).CollectGarbage()

	cmd.Execute()
}
