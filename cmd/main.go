package main

import (
	cmd "github.com/kerbaras/animeverse/cmd/animeverse"
)

func main() {
	cmd.Execute()
}
