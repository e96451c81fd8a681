package main

import "github.com/twiced-technology-gmbh/cutboard/cmd"

func main() {
	cmd.Execute()
}
