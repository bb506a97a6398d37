package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/preset"
)

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "Print the effective category presets",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := loadPresets(cfg)
			if err != nil {
				return err
			}

			cats := make([]string, 0, len(table))
			for c := range table {
				cats = append(cats, string(c))
			}
			sort.Strings(cats)

			fmt.Printf("%-10s %8s %8s %6s %8s %7s %s\n", "CATEGORY", "X", "Y", "SCALE", "ROTATE", "OPACITY", "PAIRED")
			for _, name := range cats {
				c := preset.Category(name)
				t := table[c]
				fmt.Printf("%-10s %8.1f %8.1f %6.2f %8.1f %7.2f %v\n",
					c, t.Position.X, t.Position.Y, t.Scale, t.Rotation, t.Opacity, c.Paired())
			}
			return nil
		},
	}
}
