package main

import (
	"os"

	_ "github.com/kirinyoku/courtgo/docs"
)

// @title Courtgo API
// @version 1.0
// @description Open tennis court sessions: create, join and pay your share.
// @host localhost:8080
// @BasePath /
func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
