package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve a dataset over a read-only HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := dataset.ReadFile(args[0])
		if err != nil {
			return err
		}

		log.Info("serving dataset", zap.String("path", args[0]), zap.Int("questions", len(qs)))
		return server.New(qs, nil, log).Run(cmd.Context(), server.Config{
			Addr:            cfg.Server.Addr,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
