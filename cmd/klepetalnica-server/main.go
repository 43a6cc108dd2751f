package main

import (
	"flag"
	"log/slog"
	"net"
	"os"

	"github.com/joho/godotenv"

	"github.com/FilipGjorgjeski/klepetalnica/internal/server"
	"github.com/FilipGjorgjeski/klepetalnica/storage"
)

func main() {
	// A missing .env is fine; flags and defaults still apply.
	_ = godotenv.Load()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	host := fs.String("host", envOr("HOST", "127.0.0.1"), "listen host")
	port := fs.String("port", envOr("PORT", "9000"), "listen port")
	dir := fs.String("chat-log-dir", envOr("CHAT_LOG_DIR", "chat_logs"), "chat log directory")
	_ = fs.Parse(os.Args[1:])

	log, err := storage.OpenMessageLog(*dir)
	if err != nil {
		slog.Error("opening message log failed", "dir", *dir, "err", err)
		os.Exit(1)
	}

	s := server.NewServer(storage.NewSessions(), log, storage.NewBroadcastQueue())

	addr := net.JoinHostPort(*host, *port)
	slog.Info("socket is bound", "addr", addr, "chat_log_dir", *dir)
	if err := server.ListenAndServe(addr, s); err != nil {
		slog.Error("serve failed", "err", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
