package main

import (
	"mugen/cmd"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cmd.Execute()
}
