package main

import (
	"github.com/luma/eosc/cmd"
)

func main() {
	cmd.Execute()
}
