package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a try-on session behind the HTTP/websocket control server",
		Flags: append(itemFlags(),
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default: :8080)"},
			&cli.IntFlag{Name: "fps", Usage: "Preview frames per second on /ws/preview"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, cfg, err := startSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			addr := cfg.Addr
			if a := cmd.String("addr"); a != "" {
				addr = a
			}
			fps := cfg.PreviewFPS
			if f := int(cmd.Int("fps")); f > 0 {
				fps = f
			}

			srv := server.New(s, server.Options{Addr: addr, FPS: fps})
			return srv.Listen(ctx)
		},
	}
}
