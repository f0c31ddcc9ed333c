package main

import (
	"os"
	"testing"

	"bookstore-catalog/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}
