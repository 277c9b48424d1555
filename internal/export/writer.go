package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
)

// WriteCSV writes one header row followed by numeric rows, six decimal
// places per value.
func WriteCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row width %d does not match header width %d", len(row), len(header))
		}
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v indented to path.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SpectrumTable flattens an environment comparison into CSV form: mode
// index, then a frequency and damping column per environment.
func SpectrumTable(cmp *analysis.EnvironmentComparison) (header []string, rows [][]float64) {
	header = []string{"mode"}
	for _, env := range cmp.Environments {
		header = append(header, "freq_hz_"+env, "zeta_"+env)
	}
	if len(cmp.Zeta) == 0 {
		return header, nil
	}
	for n := range cmp.Zeta[0] {
		row := []float64{float64(n)}
		for e := range cmp.Environments {
			row = append(row, cmp.Frequencies[e][n], cmp.Zeta[e][n])
		}
		rows = append(rows, row)
	}
	return header, rows
}

// SweepTable flattens a boundary sweep: parameter value, margin, and the
// stability label as 0 or 1.
func SweepTable(res *physics.SweepResult) (header []string, rows [][]float64) {
	header = []string{string(res.Parameter), "margin", "stable"}
	for _, p := range res.Points {
		stable := 0.0
		if p.Stable {
			stable = 1
		}
		rows = append(rows, []float64{p.Value, p.Margin, stable})
	}
	return header, rows
}

// BoundaryTable flattens a boundary map: time lag, then one critical-index
// column per environment and frequency pair.
func BoundaryTable(bm *physics.BoundaryMap) (header []string, rows [][]float64) {
	header = []string{"tau"}
	for _, env := range bm.Environments {
		for _, f := range bm.Frequencies {
			header = append(header, fmt.Sprintf("n_crit_%s_%ghz", env, f))
		}
	}
	for i, tau := range bm.Tau {
		row := []float64{tau}
		for e := range bm.Environments {
			for f := range bm.Frequencies {
				row = append(row, bm.NCrit[e][f][i])
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

// AmplificationTable flattens an amplification sweep, one row per engine
// count.
func AmplificationTable(res *physics.AmplificationResult) (header []string, rows [][]float64) {
	header = []string{"engines", "coherent", "incoherent", "ratio", "margin_percent"}
	for i, n := range res.Counts {
		rows = append(rows, []float64{float64(n), res.Coherent[i], res.Incoherent[i], res.Ratio[i], res.MarginPercent[i]})
	}
	return header, rows
}
