package main

import "github.com/godeepar/bimgeo/cmd/bimgeo/cmd"

func main() {
	cmd.Execute()
}
