package main

import "github.com/netopsio/treekv/cmd"

func main() {
	cmd.Execute()
}
