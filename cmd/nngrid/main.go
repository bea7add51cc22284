// Command nngrid runs nearest-neighbour interpolation jobs.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
