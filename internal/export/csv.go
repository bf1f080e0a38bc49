package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/san-kum/heatrod/internal/heat"
)

// WriteCSV streams one row per snapshot: the step number followed by the
// node temperatures. Rows are written as the sequence is pulled, so nothing
// is buffered beyond the csv writer.
func WriteCSV(w io.Writer, nodes int, seq iter.Seq[heat.Field]) (int, error) {
	cw := csv.NewWriter(w)

	header := make([]string, 0, nodes+1)
	header = append(header, "step")
	for i := 0; i < nodes; i++ {
		header = append(header, fmt.Sprintf("t%d", i))
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	steps := 0
	row := make([]string, nodes+1)
	for t := range seq {
		steps++
		row[0] = strconv.Itoa(steps)
		for i, v := range t {
			row[i+1] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return steps, err
		}
	}

	cw.Flush()
	return steps, cw.Error()
}
