package main

import (
	"log"

	"github.com/MrSnakeDoc/hwtrack/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ hwtrack failed to start: %v", err)
	}
}
