package main

import (
	"github.com/Carmen-Shannon/kineticam/cmd"
)

func main() {
	cmd.Execute()
}
