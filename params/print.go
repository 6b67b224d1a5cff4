package params

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const printLabelWidth = 14

// Print writes a human readable summary of every visible parameter in
// declaration order:
//
//	iterations
//	----------------------------
//	Type          | int
//	Value         | 10
//	Range         | 1 <= iterations <= 100
//	Description   | number of solver passes
func (r *Registry) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", 28)

	for _, s := range r.visible() {
		fmt.Fprintf(bw, "%s\n%s\n", s.name, rule)
		printRow(bw, "Type", s.kind.String())
		if s.set {
			printRow(bw, "Value", Format(s.kind, s.value))
		}
		if label := s.rules.rangeLabel(s.name, s.kind); label != "" {
			printRow(bw, "Range", label)
		}
		if label, list := s.rules.listLabel(s.kind); label != "" {
			printRow(bw, label, list)
		}
		if s.description != "" {
			printRow(bw, "Description", s.description)
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

func printRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-*s| %s\n", printLabelWidth, label, value)
}
