package patchio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chazu/trisurf/pkg/bezier"
)

// Format writes p to w in patch text format with four decimal places.
func Format(w io.Writer, p bezier.Patch) error {
	var buf bytes.Buffer
	buf.WriteString("{{\n")
	rows := p.Degree() + 1
	for r := 0; r < rows; r++ {
		for k := 0; k <= r; k++ {
			c := p.ControlPoints[r*(r+1)/2+k]
			fmt.Fprintf(&buf, "{%.4ff, %.4ff, %.4ff}", c.X, c.Y, c.Z)
			switch {
			case k < r:
				buf.WriteString(", ")
			case r < rows-1:
				buf.WriteString(",")
			}
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}}")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("patchio: write: %w", err)
	}
	return nil
}

// FormatString returns p in patch text format.
func FormatString(p bezier.Patch) string {
	var buf bytes.Buffer
	_ = Format(&buf, p)
	return buf.String()
}
