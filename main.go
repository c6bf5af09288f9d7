package main

import "github.com/proplens/proplens/cmd"

func main() {
	cmd.Execute()
}
