package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/linebot/api"
	"github.com/garrettladley/linebot/internal/config"
	"github.com/garrettladley/linebot/internal/xslog"
)

func newClient() (*api.Client, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.LINE.Validate(); err != nil {
		return nil, err
	}

	logger := xslog.NewLoggerFromEnv(os.Stderr)
	slog.SetDefault(logger)

	opts := append(cfg.LINE.ClientOptions(), api.WithLogger(logger))
	return api.New(cfg.LINE.API(), opts...), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
