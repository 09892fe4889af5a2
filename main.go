package main

import (
	"github.com/packwiz/launchwiz/cmd"
)

func main() {
	cmd.Execute()
}
