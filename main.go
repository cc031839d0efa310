package main

import "github.com/tranvictor/fundctl/cmd"

func main() {
	cmd.Execute()
}
