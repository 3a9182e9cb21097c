package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"masterplan/internal/viewport"
)

const (
	fallbackCols = 100
	fallbackRows = 30
)

type viewOptions struct {
	width, height int
	cellWidth     float64
	zoom          float64
	pan           string
	zoomSteps     int
	selectID      string
}

func (o *viewOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.width, "width", 0, "Columns to draw (default: terminal width)")
	cmd.Flags().IntVar(&o.height, "height", 0, "Rows to draw (default: terminal height minus status lines)")
	cmd.Flags().Float64Var(&o.cellWidth, "cell", 8, "Image pixels per terminal column at scale 1")
}

// terminalGrid sizes the grid from the flags, then the terminal, then a
// fixed fallback when stdout is not a terminal.
func (o viewOptions) terminalGrid() (grid, error) {
	if o.cellWidth <= 0 {
		return grid{}, fmt.Errorf("--cell must be positive")
	}
	cols, rows := o.width, o.height
	if cols <= 0 || rows <= 0 {
		w, h, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || w <= 0 || h <= 0 {
			w, h = fallbackCols, fallbackRows+3
		}
		if cols <= 0 {
			cols = w
		}
		if rows <= 0 {
			rows = h - 3
		}
	}
	if rows < 1 {
		rows = 1
	}
	return grid{cols: cols, rows: rows, cellWidth: o.cellWidth}, nil
}

// openEngine loads the catalog into a fresh engine sized to g.
func openEngine(ctx context.Context, g grid, admin bool) (*viewport.Engine, error) {
	eng := viewport.NewEngine(apiClient(), admin)
	if err := eng.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", viewport.LoadErrorMessage, err)
	}
	eng.Resize(g.container())
	return eng, nil
}

func viewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Draw the masterplan with plot labels in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.terminalGrid()
			if err != nil {
				return err
			}
			ctx := context.Background()
			eng, err := openEngine(ctx, g, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			center := g.container().Center()
			if opts.zoom > 0 {
				eng.ZoomTo(opts.zoom, center)
			}
			for i := 0; i < opts.zoomSteps; i++ {
				eng.ZoomIn()
			}
			for i := 0; i > opts.zoomSteps; i-- {
				eng.ZoomOut()
			}
			if opts.pan != "" {
				dc, dr, err := parsePair(opts.pan)
				if err != nil {
					return fmt.Errorf("invalid --pan: %w", err)
				}
				start := center
				end := viewport.Point{X: start.X + dc*g.cellWidth, Y: start.Y + dr*2*g.cellWidth}
				if eng.BeginPan(start) {
					eng.PointerMove(end)
					eng.EndPan()
				}
			}
			if opts.selectID != "" && !eng.Select(opts.selectID) {
				return fmt.Errorf("plot %q not found", opts.selectID)
			}

			if outputJSON {
				return writeJSON(eng.Labels())
			}

			cat, _ := eng.Catalog()
			state := eng.State()
			image := viewport.Size{W: cat.Image.Width, H: cat.Image.Height}
			for _, line := range render(g, state, image, eng.Labels()) {
				fmt.Println(line)
			}
			if !outputCompact {
				fmt.Printf("scale %.2f  labels x%.2f  plots %d  (o available, + reserved, x sold)\n",
					state.Scale, viewport.LabelScale(state.Scale), len(eng.Plots()))
			}
			if p, ok := eng.Selected(); ok {
				fmt.Print(formatDetails(p))
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "Zoom to this scale about the centre (clamped to 0.35..6)")
	cmd.Flags().IntVar(&opts.zoomSteps, "steps", 0, "Zoom in (positive) or out (negative) by this many button steps")
	cmd.Flags().StringVar(&opts.pan, "pan", "", "Pan by columns,rows (e.g. -10,4)")
	cmd.Flags().StringVar(&opts.selectID, "select", "", "Show the details panel for this plot")
	return cmd
}

func dragCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "drag <id> <col> <row>",
		Short: "Drop a plot on a terminal cell of the fitted view and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid col %q", args[1])
			}
			row, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid row %q", args[2])
			}
			g, err := opts.terminalGrid()
			if err != nil {
				return err
			}

			ctx := context.Background()
			eng, err := openEngine(ctx, g, true)
			if err != nil {
				return err
			}
			defer eng.Close()

			if !eng.BeginDrag(args[0]) {
				return fmt.Errorf("plot %q not found", args[0])
			}
			eng.DragMove(g.center(col, row))
			eng.EndDrag()

			if err := eng.Save(ctx); err != nil {
				return fmt.Errorf("%s: %w", viewport.SaveErrorMessage, err)
			}
			cat, _ := eng.Catalog()
			i, ok := cat.Find(args[0])
			if !ok {
				return fmt.Errorf("plot %q missing after save", args[0])
			}
			if outputJSON {
				return writeJSON(cat.Plots[i])
			}
			fmt.Printf("%s saved at %.4f, %.4f\n", args[0], cat.Plots[i].X, cat.Plots[i].Y)
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}

func parsePair(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma separated numbers, got %q", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
