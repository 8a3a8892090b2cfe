// =============================================================================
// pkg/output/output.go - Result Writers
// =============================================================================
//
// Everything written here goes to the result stream (stdout). Logs never do.
//
// FORMATS:
//
//	times         one "%f" seconds value per line
//	records       one JSON object per line (--full-responses)
//	distribution  RenderText of a histogram/CDF/CCDF
//
// =============================================================================

package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/distribution"
	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the JSON line emitted per sample with --full-responses.
// Exactly one of Result and Error is present.
type Record struct {
	Run    string                 `json:"run"`
	Index  int                    `json:"index"`
	Start  time.Time              `json:"start"`
	Time   float64                `json:"time"`
	Result json.RawMessage        `json:"result,omitempty"`
	Error  *types.InvocationError `json:"error,omitempty"`
}

// NewRecord builds the record for the index-th sample of a run.
func NewRecord(runID string, index int, s types.Sample) Record {
	rec := Record{
		Run:   runID,
		Index: index,
		Start: s.Start.UTC(),
		Time:  s.Seconds(),
		Error: s.Outcome.Err,
	}
	if !s.Outcome.IsError() {
		rec.Result = s.Outcome.Value
		if len(rec.Result) == 0 {
			rec.Result = json.RawMessage("null")
		}
	}
	return rec
}

// WriteTimes writes one elapsed time in seconds per line.
func WriteTimes(w io.Writer, times []float64) error {
	bw := bufio.NewWriter(w)
	for _, t := range times {
		if _, err := fmt.Fprintf(bw, "%f\n", t); err != nil {
			return errors.Wrap(err, "failed to write times")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to write times")
}

// WriteRecords writes every sample, errors included, as a JSON line.
func WriteRecords(w io.Writer, runID string, samples []types.Sample) error {
	bw := bufio.NewWriter(w)
	enc := jsonAPI.NewEncoder(bw)
	for i, s := range samples {
		if err := enc.Encode(NewRecord(runID, i, s)); err != nil {
			return errors.Wrapf(err, "failed to encode record %d", i)
		}
	}
	return errors.Wrap(bw.Flush(), "failed to write records")
}

// WriteDistribution writes the text rendering of d.
func WriteDistribution(w io.Writer, d distribution.Distribution) error {
	_, err := io.WriteString(w, distribution.RenderText(d))
	return errors.Wrap(err, "failed to write distribution")
}
