package main

import (
	"fmt"
	"io"

	"combatscore/internal/adapters/resulttable"
	"combatscore/internal/core/heuristics"
	"combatscore/internal/modkit"
	scoringmod "combatscore/internal/services/scoring/module"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	accent    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
	edgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
)

// newTable builds a bordered table; columns listed in right are right aligned
func newTable(headers []string, right ...int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(edgeStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cellStyle
			if row == table.HeaderRow {
				s = s.Inherit(accent)
			}
			for _, c := range right {
				if c == col {
					return s.Align(lipgloss.Right)
				}
			}
			return s
		})
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered heuristics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := newTable([]string{"heuristic", "description"})
			for _, e := range heuristics.Entries() {
				name := string(e.Name)
				if e.Name == heuristics.Default {
					name += " (default)"
				}
				tbl.Row(name, e.Description)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
			return err
		},
	}
}

func newShowCmd(opts *scoringmod.Options) *cobra.Command {
	var (
		limit int
		desc  bool
	)
	cmd := &cobra.Command{
		Use:   "show <heuristic>",
		Short: "Print a persisted result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := heuristics.Describe(args[0]); err != nil {
				return err
			}
			t, err := resulttable.Read(resulttable.Path(opts.ResultsDir, args[0]))
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), t, limit, desc)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most n rows (0 prints all)")
	cmd.Flags().BoolVar(&desc, "desc", false, "highest scores first")
	return cmd
}

func printTable(w io.Writer, t resulttable.Table, limit int, desc bool) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", accent.Render(resulttable.HeaderKey), t.Checksum); err != nil {
		return err
	}
	tbl := newTable([]string{"unit", "score"}, 1)
	for _, r := range t.Top(limit, desc) {
		tbl.Row(r.UnitID, resulttable.FormatScore(r.Score))
	}
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

func newFingerprintCmd(opts *scoringmod.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the dataset fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := scoringmod.New(modkit.Deps{}, *opts)
			if err != nil {
				return err
			}
			fp, err := m.Runner().Fingerprint(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fp)
			return err
		},
	}
	cmd.Flags().IntVar(&opts.FingerprintJobs, "jobs", opts.FingerprintJobs, "concurrent file hashes")
	cmd.Flags().StringVar(&opts.FingerprintAlgo, "algo", opts.FingerprintAlgo, "fingerprint hash")
	return cmd
}
