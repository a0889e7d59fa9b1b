package main

import "github.com/ArnaudCalmettes/landslide/cmd"

func main() {
	cmd.Execute()
}
