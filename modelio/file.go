package modelio

import (
	"compress/gzip"
	"io"
	"os"
	"time"

	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// Save writes m to path. The encoding follows FormatForPath: "model.txt" is
// text, "model.bin.gz" gzip compressed binary, and so on.
//
// Example:
//
//	if err := modelio.Save("ppa-model.txt.gz", model); err != nil {
//	    return err
//	}
func Save(path string, m *gis.Model) (err error) {
	start := time.Now()
	format, gzipped := FormatForPath(path)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create model file %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close model file %s", path)
		}
	}()

	var w io.Writer = f
	var gz *gzip.Writer
	if gzipped {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := NewWriter(w, format).Write(m); err != nil {
		return errors.Wrapf(err, "save model %s", path)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrapf(err, "finish gzip stream %s", path)
		}
	}

	log.GetLoggerWithName("modelio").Info("Model saved",
		log.OperationKey, log.OperationSave,
		log.PathKey, path,
		log.FormatKey, formatName(format, gzipped),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Load reads a model from path, choosing the decoder with FormatForPath.
func Load(path string) (*gis.Model, error) {
	start := time.Now()
	format, gzipped := FormatForPath(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model file %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "open gzip model file %s", path)
		}
		defer gz.Close()
		r = gz
	}

	m, err := NewReader(r, format).Read()
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", path)
	}

	log.GetLoggerWithName("modelio").Info("Model loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.FormatKey, formatName(format, gzipped),
		log.OutcomesKey, m.NumOutcomes(),
		log.PredicatesKey, len(m.PredLabels()),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

func formatName(f Format, gzipped bool) string {
	if gzipped {
		return f.String() + "+gzip"
	}
	return f.String()
}
