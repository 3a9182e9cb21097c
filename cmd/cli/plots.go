package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"masterplan/pkg/models"
)

func plotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Inspect and move plots",
	}

	cmd.AddCommand(plotsListCmd())
	cmd.AddCommand(plotsShowCmd())
	cmd.AddCommand(plotsMoveCmd())
	return cmd
}

func plotsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plots in catalog order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := apiClient().Catalog(context.Background())
			if err != nil {
				return err
			}

			plots := make([]models.Plot, 0, len(cat.Plots))
			for _, p := range cat.Plots {
				if status != "" && string(p.Status) != status {
					continue
				}
				plots = append(plots, p)
			}

			if outputJSON {
				return writeJSON(plots)
			}
			if len(plots) == 0 {
				fmt.Println("No plots.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			if !outputCompact {
				fmt.Fprintln(writer, "ID\tLABEL\tSTATUS\tX\tY")
			}
			for _, p := range plots {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%.4f\t%.4f\n", p.ID, p.Label, p.Status, p.X, p.Y)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only plots with this status (available, reserved, sold)")
	return cmd
}

func plotsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details panel for a plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apiClient().Plot(context.Background(), args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(p)
			}
			fmt.Print(formatDetails(p))
			return nil
		},
	}
}

func plotsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Set a plot's normalized position (values are clamped to 0..1)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q", args[1])
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q", args[2])
			}

			cat, err := apiClient().MovePlot(context.Background(), args[0], x, y)
			if err != nil {
				return err
			}
			i, _ := cat.Find(args[0])
			if outputJSON {
				return writeJSON(cat.Plots[i])
			}
			fmt.Printf("%s moved to %.4f, %.4f\n", args[0], cat.Plots[i].X, cat.Plots[i].Y)
			return nil
		},
	}
}

func formatDetails(p models.Plot) string {
	out := fmt.Sprintf("%s  [%s]\n", p.DisplayName(), p.Status.Label())
	line := "  " + p.DisplayType()
	if area, ok := p.Number(models.KeyAreaSqft); ok {
		line += ", " + formatCount(area) + " sqft"
	}
	out += line + "\n"

	var rooms []string
	if n, ok := p.Number(models.KeyBedrooms); ok {
		rooms = append(rooms, formatCount(n)+" bedrooms")
	}
	if n, ok := p.Number(models.KeyBathrooms); ok {
		rooms = append(rooms, formatCount(n)+" bathrooms")
	}
	if len(rooms) > 0 {
		out += "  " + strings.Join(rooms, ", ") + "\n"
	}
	if d := p.Text(models.KeyDescription); d != "" {
		out += "  " + d + "\n"
	}
	if b := p.Text(models.KeyBlueprintSrc); b != "" {
		out += "  blueprint: " + b + "\n"
	}
	if m := p.Text(models.KeyMapsURL); m != "" {
		out += "  map: " + m + "\n"
	}
	return out
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
