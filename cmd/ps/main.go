// Command ps prints a snapshot of running processes, per
// original_source/src/ps/mod.rs (process/status_parser.rs).
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sisatech/tablewriter"

	"github.com/nyanza-systems/maestro-utils/pkg/procfs"
)

func main() {
	procs, err := procfs.List()
	if err != nil {
		logrus.Errorf("ps: %v", err)
		os.Exit(1)
	}

	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeader([]string{"PID", "PPID", "UID", "CMD"})
	for _, p := range procs {
		table.Append([]string{
			strconv.FormatUint(uint64(p.PID), 10),
			strconv.FormatUint(uint64(p.PPID), 10),
			strconv.FormatUint(uint64(p.UID), 10),
			p.Name,
		})
	}

	fmt.Println()
	table.Render()
}
