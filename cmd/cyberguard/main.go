package main

import "github.com/cyberguard/cyberguard/cmd/cyberguard/commands"

func main() {
	commands.Execute()
}
