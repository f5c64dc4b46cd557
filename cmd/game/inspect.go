package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tomz197/blackwall/internal/config"
	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/save"
)

func newInspectCmd(cfg *config.Game) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the contents of a save file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), *cfg)
		},
	}
}

func runInspect(ctx context.Context, w io.Writer, cfg config.Game) error {
	balance, err := loadBalance(cfg.BalancePath)
	if err != nil {
		return err
	}

	warnColor := color.New(color.FgYellow, color.Bold)
	snap, err := save.NewFileStore(cfg.SavePath).Load(ctx, "")
	switch {
	case errors.Is(err, save.ErrNotFound):
		warnColor.Fprintf(w, "No save at %s\n", cfg.SavePath)
		return nil
	case errors.Is(err, save.ErrVersionMismatch):
		warnColor.Fprintf(w, "Save at %s is from another version and will be ignored by the game: %v\n", cfg.SavePath, err)
		return nil
	case err != nil:
		return err
	}

	g := game.New(balance, rand.New(rand.NewPCG(0, 0)))
	if !g.Restore(snap) {
		warnColor.Fprintf(w, "Save at %s holds invalid values and will be ignored by the game\n", cfg.SavePath)
		return nil
	}
	return printReport(w, cfg.SavePath, g)
}

func printReport(w io.Writer, path string, g *game.Game) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	valueColor := color.New(color.FgGreen, color.Bold)

	titleColor.Fprintf(w, "BLACKWALL BREACH save: %s\n\n", path)
	fmt.Fprintf(w, "   DATA bank:        %s\n", valueColor.Sprint(draw.FormatNumber(g.Bank())))
	fmt.Fprintf(w, "   DATA/sec:         %s\n", valueColor.Sprint(draw.FormatNumber(g.YieldPerSecond())))
	fmt.Fprintf(w, "   Multiplier:       x%.2f (next %s)\n", g.Multiplier(), draw.FormatNumber(g.MultiplierCost()))
	fmt.Fprintf(w, "   Click share:      %g%% (next %s)\n", g.ClickShare()*100, draw.FormatNumber(g.ClickShareCost()))
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Key", "Source", "Owned", "DATA/s each", "DATA/s total", "Next cost"}),
	)
	for i := range g.NumBuildings() {
		b, _ := g.Building(i)
		row := []string{
			string(input.BuildingKey(i)),
			b.Name,
			draw.FormatCount(b.Count),
			draw.FormatNumber(b.BaseYield),
			draw.FormatNumber(b.Yield()),
			draw.FormatNumber(b.NextCost()),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
