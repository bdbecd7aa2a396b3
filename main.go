package main

import (
	"bg3-mod-manager/cmd"
	"bg3-mod-manager/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger()
	defer logger.Sync()
	cmd.Execute()
}
