package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/linebot/internal/version"
)

func main() {
	_ = godotenv.Load()

	if err := fang.Execute(context.Background(), rootCmd(), fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "linebot",
		Short:        "Talk to the LINE BOT trial API from your terminal",
		Version:      version.Get(),
		SilenceUsage: true,
	}

	cmd.AddCommand(profilesCmd())
	cmd.AddCommand(sendCmd())
	cmd.AddCommand(signCmd())

	return cmd
}
