package main

import "github.com/myansub/subtran/cmd"

func main() {
	cmd.Execute()
}
