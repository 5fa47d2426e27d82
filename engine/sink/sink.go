// Package sink writes analysis results to CSV summaries and JSON dumps.
// The CSV carries one row per curve, failed curves included, so a batch
// run always accounts for every input file.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/pipeline"
)

// Record pairs one input with its outcome: exactly one of Result and Err
// is set.
type Record struct {
	Source string           `json:"source"`
	Result *pipeline.Result `json:"result,omitempty"`
	Err    error            `json:"-"`
}

// MarshalJSON flattens the failure into an error string so dumps stay
// readable without a custom decoder.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Sink writes records to a filesystem. A nil fs means the OS filesystem.
type Sink struct {
	fs afero.Fs
}

func New(fs afero.Fs) Sink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return Sink{fs: fs}
}

var csvHeader = []string{
	"id", "source", "contact_index", "z0", "model", "modulus_pa",
	"std_err", "r_squared", "max_indentation_m", "hysteresis_area_j",
	"loss_ratio", "flags", "error",
}

// WriteCSV writes the summary table, one row per record.
func (s Sink) WriteCSV(path string, records []Record) error {
	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, rec := range records {
		if err := w.Write(csvRow(rec)); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteJSON dumps the full records, residuals and noise diagnostics included.
func (s Sink) WriteJSON(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func csvRow(rec Record) []string {
	if rec.Err != nil {
		row := make([]string, len(csvHeader))
		row[1] = rec.Source
		row[len(row)-1] = rec.Err.Error()
		return row
	}

	res := rec.Result
	flags := make([]string, len(res.Flags))
	for i, fl := range res.Flags {
		flags[i] = string(fl)
	}
	hystArea, lossRatio := "", ""
	if res.Hysteresis != nil {
		hystArea = formatFloat(res.Hysteresis.Area)
		lossRatio = formatFloat(res.Hysteresis.LossRatio)
	}
	return []string{
		res.ID,
		rec.Source,
		strconv.Itoa(res.Contact.Index),
		formatFloat(res.Contact.Z0),
		string(res.Fit.Params.Kind),
		formatFloat(res.Fit.Params.Modulus),
		formatFloat(res.Fit.StdErr),
		formatFloat(res.Fit.RSquared),
		formatFloat(res.MaxIndentation),
		hystArea,
		lossRatio,
		strings.Join(flags, "|"),
		"",
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
