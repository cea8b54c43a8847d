package main

import "github.com/josephlewis42/simplesh/cmd"

func main() {
	cmd.Execute()
}
