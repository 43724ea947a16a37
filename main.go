package main

import "github.com/ckampfe/kvqlite/cmd"

func main() {
	cmd.Execute()
}
