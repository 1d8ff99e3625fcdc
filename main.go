package main

import (
	"github.com/followme/attendance-cli/internal/cmd"
)

func main() {
	cmd.Execute()
}
