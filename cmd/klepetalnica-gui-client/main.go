package main

import (
	"flag"
	"log/slog"
	"net"
	"os"

	"github.com/joho/godotenv"

	"github.com/FilipGjorgjeski/klepetalnica/client"
	"github.com/FilipGjorgjeski/klepetalnica/gui"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Running failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var host, port string
	flag.StringVar(&host, "host", envOr("HOST", "127.0.0.1"), "relay host")
	flag.StringVar(&port, "port", envOr("PORT", "9000"), "relay port")
	flag.Parse()

	c := client.New(net.JoinHostPort(host, port))
	defer func() { _ = c.Close() }()

	app := gui.NewApp(c)

	return app.Run()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
