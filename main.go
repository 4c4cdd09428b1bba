package main

import "github.com/KaramelBytes/energymix-cli/cmd"

func main() {
	cmd.Execute()
}
