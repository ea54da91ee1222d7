package main

import (
	cmd "github.com/driftml/sweep-runner/cmd/sweeprun"
)

func main() {
	cmd.Execute()
}
