package main

import "github.com/hamyarhq/hamyar_backend/cmd"

func main() {
	cmd.Execute()
}
