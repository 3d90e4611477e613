package main

import "github.com/jcdickinson/rsdoclink/cmd"

func main() {
	cmd.Execute()
}
