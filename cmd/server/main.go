package main

import (
	"log/slog"
	"os"

	"folha/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		slog.Error("folha server stopped", "err", err)
		os.Exit(1)
	}
}
