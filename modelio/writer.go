package modelio

import (
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Writer serializes GIS models.
type Writer struct {
	out DataWriter
}

// NewWriter creates a Writer encoding f to w. The caller owns w.
func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{out: f.NewDataWriter(w)}
}

// NewDataModelWriter creates a Writer on top of an existing DataWriter.
func NewDataModelWriter(out DataWriter) *Writer {
	return &Writer{out: out}
}

// Write serializes m and flushes the encoder.
func (w *Writer) Write(m *gis.Model) error {
	params := m.Parameters()
	out := w.out

	if err := out.WriteUTF(gis.ModelType); err != nil {
		return errors.NewFormatError("write", "model type", err)
	}
	if err := out.WriteDouble(params.CorrectionConstant); err != nil {
		return errors.NewFormatError("write", "correction constant", err)
	}
	if err := out.WriteDouble(params.CorrectionParam); err != nil {
		return errors.NewFormatError("write", "correction parameter", err)
	}
	if err := writeLabels(out, "outcome labels", m.OutcomeLabels()); err != nil {
		return err
	}
	if err := writeLabels(out, "outcome patterns", patterns(params.Params)); err != nil {
		return err
	}
	if err := writeLabels(out, "predicate labels", m.PredLabels()); err != nil {
		return err
	}
	for pid, ctx := range params.Params {
		for _, v := range ctx.Parameters {
			if err := out.WriteDouble(v); err != nil {
				return errors.NewFormatError("write", "parameters of predicate "+strconv.Itoa(pid), err)
			}
		}
	}
	if err := out.Flush(); err != nil {
		return errors.NewFormatError("write", "flush", err)
	}
	return nil
}

func writeLabels(out DataWriter, field string, labels []string) error {
	if err := out.WriteInt(len(labels)); err != nil {
		return errors.NewFormatError("write", field, err)
	}
	for _, l := range labels {
		if err := out.WriteUTF(l); err != nil {
			return errors.NewFormatError("write", field, err)
		}
	}
	return nil
}

// patterns groups runs of consecutive predicates sharing an outcome pattern
// into "n o1 o2 ..." strings.
func patterns(params []gis.Context) []string {
	var out []string
	for start := 0; start < len(params); {
		end := start + 1
		for end < len(params) && sameOutcomes(params[start].Outcomes, params[end].Outcomes) {
			end++
		}

		var sb strings.Builder
		sb.WriteString(strconv.Itoa(end - start))
		for _, oid := range params[start].Outcomes {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(oid))
		}
		out = append(out, sb.String())
		start = end
	}
	return out
}

func sameOutcomes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
