package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/polarplant/ecboard/pkg/dataset"
	"github.com/polarplant/ecboard/pkg/fsmatch"
)

// cmdExport writes one group's growth table to an XLSX file, the offline
// equivalent of the dashboard's download button.
func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	groupID := fs.String("group", "", "group ID to export (e.g. songdo)")
	dataDir := fs.String("data-dir", "data", "data directory")
	groupsFile := fs.String("groups", "groups.yaml", "groups file")
	out := fs.String("out", "", "output path (default <name>_생육결과.xlsx)")
	fs.Parse(args)

	groups, err := dataset.LoadGroups(*groupsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *groupID == "" {
		fmt.Println("Available groups:")
		for _, g := range groups {
			fmt.Printf("  %-10s %s (EC %.1f dS/m, %d plants)\n", g.ID, g.Name, g.ECTarget, g.Plants)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ecboard export --group <id> [--data-dir <dir>] [--out <file>]")
		return
	}

	var group *dataset.Group
	for i := range groups {
		if groups[i].ID == *groupID {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown group %q\n", *groupID)
		os.Exit(1)
	}

	var r fsmatch.Resolver
	path, ok, err := r.First(*dataDir, dataset.GrowthWorkbookPattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no file matches %s in %s\n", dataset.GrowthWorkbookPattern, *dataDir)
		os.Exit(1)
	}

	table, err := dataset.LoadGrowth(group.ID, path, group.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dest := *out
	if dest == "" {
		dest = group.Name + "_생육결과.xlsx"
	}
	f, err := os.Create(dest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := table.ExportXLSX(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("[%s] %d rows -> %s\n", group.ID, len(table.Rows), dest)
}
