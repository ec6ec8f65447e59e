package modelio

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Reader deserializes GIS models.
type Reader struct {
	in DataReader
}

// NewReader creates a Reader decoding f from r. The caller owns r.
func NewReader(r io.Reader, f Format) *Reader {
	return &Reader{in: f.NewDataReader(r)}
}

// NewDataModelReader creates a Reader on top of an existing DataReader.
func NewDataModelReader(in DataReader) *Reader {
	return &Reader{in: in}
}

// Read decodes one model. A model type marker other than "GIS" raises a
// ModelTypeWarning and reading continues. Structural corruption returns a
// FormatError.
func (r *Reader) Read() (m *gis.Model, err error) {
	defer errors.Recover(&err, "modelio.Read")
	in := r.in

	marker, err := in.ReadUTF()
	if err != nil {
		return nil, errors.NewFormatError("read", "model type", err)
	}
	if marker != gis.ModelType {
		errors.Warn(errors.NewModelTypeWarning(gis.ModelType, marker))
	}

	correctionConstant, err := in.ReadDouble()
	if err != nil {
		return nil, errors.NewFormatError("read", "correction constant", err)
	}
	correctionParam, err := in.ReadDouble()
	if err != nil {
		return nil, errors.NewFormatError("read", "correction parameter", err)
	}

	outcomeLabels, err := readLabels(in, "outcome labels")
	if err != nil {
		return nil, err
	}
	patternStrings, err := readLabels(in, "outcome patterns")
	if err != nil {
		return nil, err
	}
	predLabels, err := readLabels(in, "predicate labels")
	if err != nil {
		return nil, err
	}

	params := make([]gis.Context, 0, len(predLabels))
	for _, ps := range patternStrings {
		n, outcomes, err := parsePattern(ps, len(outcomeLabels))
		if err != nil {
			return nil, err
		}
		if len(params)+n > len(predLabels) {
			return nil, errors.NewFormatError("read", "outcome patterns",
				errors.Newf("patterns cover more than %d predicates", len(predLabels)))
		}
		for i := 0; i < n; i++ {
			pid := len(params)
			ctx := gis.NewContext(slices.Clone(outcomes))
			for j := range ctx.Parameters {
				if ctx.Parameters[j], err = in.ReadDouble(); err != nil {
					return nil, errors.NewFormatError("read", "parameters of predicate "+strconv.Itoa(pid), err)
				}
			}
			params = append(params, ctx)
		}
	}
	if len(params) != len(predLabels) {
		return nil, errors.NewFormatError("read", "outcome patterns",
			errors.Newf("patterns cover %d of %d predicates", len(params), len(predLabels)))
	}

	if !(correctionConstant > 0) {
		return nil, errors.NewFormatError("read", "correction constant",
			errors.Newf("must be positive, got %v", correctionConstant))
	}
	evalParams := gis.NewEvalParameters(params, correctionParam, correctionConstant, len(outcomeLabels))
	m, err = gis.NewModel(evalParams, predLabels, outcomeLabels)
	if err != nil {
		return nil, errors.NewModelError("read", "invalid model", err)
	}
	return m, nil
}

func readLabels(in DataReader, field string) ([]string, error) {
	n, err := in.ReadInt()
	if err != nil {
		return nil, errors.NewFormatError("read", field, err)
	}
	if n < 0 {
		return nil, errors.NewFormatError("read", field, errors.Newf("negative count %d", n))
	}
	var labels []string
	for i := 0; i < n; i++ {
		l, err := in.ReadUTF()
		if err != nil {
			return nil, errors.NewFormatError("read", field, err)
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func parsePattern(s string, numOutcomes int) (int, []int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, nil, errors.NewFormatError("read", "outcome patterns", errors.New("empty pattern"))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return 0, nil, errors.NewFormatError("read", "outcome patterns", errors.Newf("bad predicate count in %q", s))
	}
	outcomes := make([]int, len(fields)-1)
	for i, f := range fields[1:] {
		oid, err := strconv.Atoi(f)
		if err != nil || oid < 0 || oid >= numOutcomes {
			return 0, nil, errors.NewFormatError("read", "outcome patterns", errors.Newf("bad outcome id in %q", s))
		}
		outcomes[i] = oid
	}
	return n, outcomes, nil
}
