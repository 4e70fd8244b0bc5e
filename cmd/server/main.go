package main

import "github.com/pankhokiudaan/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
