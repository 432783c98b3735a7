// Command slidesort is the offline companion to the server. It validates
// configuration files, prints sorting plans and summarizes how hard each
// layout is.
//
//	slidesort check --dir configs
//	slidesort solve classic
//	slidesort solve --json path/to/layout.json
//	slidesort analyze
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/slidesort/game/config"
	"github.com/wricardo/slidesort/game/engine"
	"github.com/wricardo/slidesort/validate"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	headColor = color.New(color.FgCyan, color.Bold)
)

var errInvalidConfigs = errors.New("some configurations have errors")

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, failColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func dirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   "configs",
		Usage:   "directory holding puzzle configuration files",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "slidesort",
		Usage:  "validate, solve and analyze sliding tile layouts",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "validate every configuration in a directory",
				Flags: []cli.Flag{dirFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runCheck(out, cmd.String("dir"))
				},
			},
			{
				Name:      "solve",
				Usage:     "print the planner's move list for a configuration",
				ArgsUsage: "<config-id | file.json>",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the plan as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 1 {
						return fmt.Errorf("solve takes exactly one config ID or file")
					}
					puzzleConfig, err := loadConfig(cmd.String("dir"), cmd.Args().First())
					if err != nil {
						return err
					}
					return runSolve(out, puzzleConfig, cmd.Bool("json"))
				},
			},
			{
				Name:  "analyze",
				Usage: "summarize tile count, disorder and plan length per configuration",
				Flags: []cli.Flag{dirFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAnalyze(out, cmd.String("dir"))
				},
			},
		},
	}
}

// loadConfig accepts either a path to a JSON file or a config ID inside dir
func loadConfig(dir, name string) (*engine.PuzzleConfig, error) {
	if strings.HasSuffix(name, ".json") {
		if _, err := os.Stat(name); err == nil {
			return engine.LoadPuzzleConfig(name)
		}
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	return manager.LoadConfig(strings.TrimSuffix(name, ".json"))
}

func runCheck(out io.Writer, dir string) error {
	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no configuration files in %s", dir)
	}

	for _, result := range results {
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), headColor.Sprint(result.File))

		if result.Valid {
			okColor.Fprintln(out, "VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(out, "  "+note)
			}
		} else {
			failColor.Fprintln(out, "INVALID")
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  ✗ "+e)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if !validate.AllValid(results) {
		failColor.Fprintln(out, "Some configurations have errors")
		return errInvalidConfigs
	}
	okColor.Fprintln(out, "All configurations are valid!")
	return nil
}

type solveOutput struct {
	Name              string        `json:"name"`
	Start             [][]int       `json:"start"`
	Moves             []engine.Move `json:"moves"`
	TotalDisplacement int           `json:"total_displacement"`
	Result            [][]int       `json:"result"`
}

func runSolve(out io.Writer, puzzleConfig *engine.PuzzleConfig, asJSON bool) error {
	grid, err := engine.NewGrid(puzzleConfig.Layout)
	if err != nil {
		return err
	}

	moves, err := grid.SortingMoves()
	if err != nil {
		return fmt.Errorf("planning %s: %w", puzzleConfig.Name, err)
	}

	start := grid.Cells()
	if err := grid.ApplyMoves(moves); err != nil {
		return fmt.Errorf("applying plan for %s: %w", puzzleConfig.Name, err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(solveOutput{
			Name:              puzzleConfig.Name,
			Start:             start,
			Moves:             moves,
			TotalDisplacement: engine.TotalDisplacement(moves),
			Result:            grid.Cells(),
		})
	}

	headColor.Fprintf(out, "%s (%dx%d)\n", puzzleConfig.Name, puzzleConfig.Rows, puzzleConfig.Cols)
	if len(moves) == 0 {
		okColor.Fprintln(out, "Already sorted")
		return nil
	}

	for i, m := range moves {
		fmt.Fprintf(out, "%3d. %s\n", i+1, m)
	}
	fmt.Fprintf(out, "\n%d moves, total displacement %d\n\n%s\n", len(moves), engine.TotalDisplacement(moves), grid)
	return nil
}

func runAnalyze(out io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONFIG\tSIZE\tTILES\tMISPLACED\tHOME DIST\tPLAN\tDISPLACEMENT")

	for _, info := range configs {
		puzzleConfig, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\t-\n", info.ConfigID, err)
			continue
		}

		grid, err := engine.NewGrid(puzzleConfig.Layout)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\t-\n", info.ConfigID, err)
			continue
		}

		plan := "failed"
		displacement := 0
		if moves, err := grid.SortingMoves(); err == nil {
			plan = fmt.Sprint(len(moves))
			displacement = engine.TotalDisplacement(moves)
		}

		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%d\t%s\t%d\n",
			info.ConfigID, grid.Rows(), grid.Cols(), grid.TileCount(),
			engine.CountMisplaced(grid), engine.HomeDistance(grid), plan, displacement)
	}

	return w.Flush()
}
