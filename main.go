package main

import "github.com/Tiliavir/purrlog/cmd"

func main() {
	cmd.Execute()
}
