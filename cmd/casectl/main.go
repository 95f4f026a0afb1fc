package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/nexconsult/courtcase-api/cmd/casectl/commands"
)

func main() {
	_ = godotenv.Load()
	commands.ExecuteContext(context.Background())
}
