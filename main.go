package main

import "github.com/pharmaops/shiftcheck/cmd"

func main() {
	cmd.Execute()
}
