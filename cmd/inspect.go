package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jsphweid/chordstave/stave"
	"github.com/jsphweid/chordstave/voice"
	"github.com/spf13/cobra"
)

var inspectInput inputFlags

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	ghostStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

func init() {
	inspectInput.register(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [response.json | -]",
	Short: "Prints how a progression splits into voices and bars",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := inspectInput.load(cmd, args)
		if err != nil {
			return err
		}
		res, err := stave.Build(resp, stave.Options{})
		if err != nil {
			return err
		}
		p := res.Partition
		fmt.Fprintf(cmd.OutOrStdout(), "%s, %s in %s: %d chords, %d bars, %d lines\n",
			p.Mode, resp.Key, p.Time, p.NumChords(), p.NumBars(), res.Score.Lines)
		fmt.Fprintln(cmd.OutOrStdout(), inspectTable(p).Render())
		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
		}
		return nil
	},
}

// inspectTable has a row per voice and a column per bar. Ghost notes show
// as a dot.
func inspectTable(p *voice.Partition) *table.Table {
	headers := []string{"voice"}
	for i := 0; i < p.NumBars(); i++ {
		headers = append(headers, fmt.Sprintf("bar %d", i+1))
	}

	ghostCells := map[[2]int]bool{}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	// highest voice first, the way a score reads
	for v := len(p.Voices) - 1; v >= 0; v-- {
		vc := p.Voices[v]
		row := []string{fmt.Sprintf("%s (%s)", vc.Name, vc.Clef)}
		for b, bar := range vc.Bars {
			var notes []string
			allGhosts := len(bar) > 0
			for _, n := range bar {
				notes = append(notes, noteText(n))
				allGhosts = allGhosts && n.Ghost
			}
			if allGhosts {
				ghostCells[[2]int{len(p.Voices) - 1 - v, b + 1}] = true
			}
			row = append(row, strings.Join(notes, " "))
		}
		t.Row(row...)
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case ghostCells[[2]int{row, col}]:
			return ghostStyle
		}
		return cellStyle
	})
}

func noteText(n voice.Note) string {
	if n.Ghost {
		return "·"
	}
	var keys []string
	for _, k := range n.Keys {
		keys = append(keys, k.Pitch.String())
	}
	return strings.Join(keys, ".")
}
