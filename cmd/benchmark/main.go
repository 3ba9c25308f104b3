package main

import (
	"github.com/CanNotCode2/COMP530-Lab5/pkg/cli"
)

func main() {
	cli.Execute()
}
