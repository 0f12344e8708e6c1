package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all board variants",
	Long:  `Shows every registered HexHunt variant with its board size.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	variants := registry.List()
	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRADIUS\tDESCRIPTION")
	for _, v := range variants {
		radius := "config"
		if v.Radius > 0 {
			radius = fmt.Sprintf("%d", v.Radius)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, radius, v.Summary)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Run 'hexhunt play <id>' to play a variant.")
}
