package main

import (
	"CivicLink/internal/repository"
	"CivicLink/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
