package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	_ = godotenv.Load()

	os.Exit(m.Run())
}
