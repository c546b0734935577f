package main

import "github.com/ernesto27/go-nip/cmd"

func main() {
	cmd.Execute()
}
