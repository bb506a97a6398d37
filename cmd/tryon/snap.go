package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
)

func snapCommand() *cli.Command {
	return &cli.Command{
		Name:  "snap",
		Usage: "Capture one composited snapshot from the camera and publish it",
		Flags: append(itemFlags(),
			&cli.StringFlag{Name: "transform", Usage: `Placement JSON, e.g. {"position":{"x":50,"y":-80},"scale":0.4,"rotation":10,"opacity":1}`},
			&cli.BoolFlag{Name: "symmetric", Usage: "Add the mirrored twin (paired categories only)"},
			&cli.IntFlag{Name: "preview-width", Usage: "Preview container width the placement was made in"},
			&cli.IntFlag{Name: "preview-height", Usage: "Preview container height the placement was made in"},
			&cli.StringFlag{Name: "description", Usage: "Creation description"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, _, err := startSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			st := s.State()
			if raw := cmd.String("transform"); raw != "" {
				t, err := parseTransform(raw, st.Transform())
				if err != nil {
					return err
				}
				st.Reset(t, s.Item().Category.Paired())
			}
			st.SetSymmetric(cmd.Bool("symmetric"))

			w, h := cmd.Int("preview-width"), cmd.Int("preview-height")
			if w > 0 && h > 0 {
				s.SetPreviewSize(mapper.Size{Width: float64(w), Height: float64(h)})
			}

			rec, err := s.Capture(ctx, cmd.String("description"))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}

// parseTransform decodes raw over base, so fields left out of the JSON keep
// the preset's values.
func parseTransform(raw string, base overlay.Transform) (overlay.Transform, error) {
	t := base
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return overlay.Transform{}, fmt.Errorf("parse --transform: %w", err)
	}
	return t, nil
}
