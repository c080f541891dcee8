package main

import "github.com/bryanchriswhite/snaploupe/cmd/snaploupe/commands"

func main() {
	commands.Execute()
}
