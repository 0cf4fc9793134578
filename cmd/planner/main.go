// Command planner plans node activations for agents moving through a tunnel graph.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dd0wney/cluso-planner/pkg/cli"
)

func main() {
	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
