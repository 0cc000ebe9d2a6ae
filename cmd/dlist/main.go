// Runs the list demo: pushes and pops a few values and prints the list from both ends after every step.

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nobletooth/dlist/pkg/config"
	"github.com/nobletooth/dlist/pkg/demo"
	"github.com/nobletooth/dlist/pkg/utils"
)

var showSlots = flag.Bool("show_slots", false, "Print the arena slot of every value.")

func main() {
	config.InitFlags()
	utils.InitLogging()

	if err := demo.Run(os.Stdout, demo.Options{ShowSlots: *showSlots}); err != nil {
		slog.Error("Demo failed.", "err", err)
		os.Exit(1)
	}
}
