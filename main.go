package main

import (
	"fmt"
	"os"

	"github.com/jasontally/semdiff/cmd"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		cmd.RunDiff(nil)
		return
	}

	switch os.Args[1] {
	case "history":
		cmd.RunHistory(os.Args[2:])
	case "--version":
		fmt.Println("semdiff", version)
	default:
		cmd.RunDiff(os.Args[1:])
	}
}
