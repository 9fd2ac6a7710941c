package main

import (
	"os"

	"fizcal/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCommand().Execute(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}
