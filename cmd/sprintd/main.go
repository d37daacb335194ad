package main

import (
	"flag"
	"fmt"
	"os"

	"sprintd/internal/di"
	"sprintd/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "log to stderr as well as the log files")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sprintd: %v\n", err)
		os.Exit(1)
	}
}
