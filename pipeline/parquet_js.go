//go:build js

package pipeline

import (
	"errors"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

var errParquetUnavailable = errors.New("parquet output is not available in the wasm build (use format=csv)")

func marshalEnrichedParquet([]f1sustain.EnrichedLap) ([]byte, error) {
	return nil, errParquetUnavailable
}

func writeEnrichedParquet(string, []f1sustain.EnrichedLap) error {
	return errParquetUnavailable
}
