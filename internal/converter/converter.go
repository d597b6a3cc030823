package converter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaehoon-lim/xlsx2csv/internal/types"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// OutputExt is the extension of the delimited text files we write.
const OutputExt = ".csv"

// DefaultEncoding is used when the form leaves the encoding field empty.
const DefaultEncoding = "utf-8"

// Reporter receives human-readable progress and error messages during a
// conversion run. Implementations must not assume any particular goroutine;
// Convert may call Report from whatever goroutine it runs on.
type Reporter interface {
	Report(msg string)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(string)

func (f ReporterFunc) Report(msg string) { f(msg) }

// Convert runs the whole pipeline: validate the input path, ensure the
// output directory exists, discover workbook files, and convert each one
// independently to <base name>.csv in outputDir. Per-file failures are
// reported and do not stop the remaining files. The returned summary holds
// one outcome per discovered file; setup failures return an empty summary
// after reporting the reason.
func Convert(inputPath, outputDir string, sheet types.SheetSelector, encodingName string, r Reporter) *types.RunSummary {
	summary := &types.RunSummary{}
	log := func(msg string) { report(r, msg) }

	if _, err := os.Stat(inputPath); err != nil {
		log(fmt.Sprintf("Error: input path %q does not exist.", inputPath))
		return summary
	}

	enc, err := resolveEncoding(encodingName)
	if err != nil {
		log(fmt.Sprintf("Error: unknown encoding %q.", encodingName))
		return summary
	}

	if _, err := os.Stat(outputDir); err != nil {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			log(fmt.Sprintf("Failed to create output directory: %v", err))
			return summary
		}
		log(fmt.Sprintf("Created output directory: %s", outputDir))
	}

	files := Discover(inputPath)
	if len(files) == 0 {
		log("No " + SourceExt + " files found to convert.")
		return summary
	}

	log(fmt.Sprintf("--- Starting conversion: %d file(s), input %s, output %s ---", len(files), inputPath, outputDir))

	for _, path := range files {
		summary.Outcomes = append(summary.Outcomes, convertFile(path, outputDir, sheet, enc, log))
	}

	log("--- Conversion complete ---")
	return summary
}

// convertFile handles one source file and never lets an error escape; every
// failure mode becomes a reported outcome.
func convertFile(path, outputDir string, sheet types.SheetSelector, enc encoding.Encoding, log func(string)) types.FileOutcome {
	outcome := types.FileOutcome{Input: path}

	// Best-effort re-check; the file can still vanish between here and the
	// open, which then surfaces as a read failure below.
	if _, err := os.Stat(path); err != nil {
		outcome.Status = types.StatusSkipped
		outcome.Err = err
		log(fmt.Sprintf("Error: input file %q no longer exists. Skipping.", path))
		return outcome
	}

	sheetName, rows, err := readSheet(path, sheet)
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = err
		log(fmt.Sprintf("Conversion error (%s): %v", path, err))
		return outcome
	}

	dataRows := len(rows) - 1
	if dataRows < 0 {
		dataRows = 0
	}
	log(fmt.Sprintf("Read sheet %q from %s (%d rows)", sheetName, path, dataRows))

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outputDir, base+OutputExt)

	if err := writeCSV(outPath, rows, enc); err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = err
		log(fmt.Sprintf("Conversion error (%s): %v", path, err))
		return outcome
	}

	outcome.Status = types.StatusConverted
	outcome.Output = outPath
	outcome.Rows = dataRows
	log(fmt.Sprintf("Saved: %s", outPath))
	return outcome
}

// readSheet loads the selected sheet's rows, header row first. The selector
// is resolved against this file only; an index or name valid in one workbook
// may be invalid in another.
func readSheet(path string, sel types.SheetSelector) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var name string
	if sel.ByName {
		idx, err := f.GetSheetIndex(sel.Name)
		if err != nil || idx < 0 {
			return "", nil, fmt.Errorf("sheet %q not found", sel.Name)
		}
		name = sel.Name
	} else {
		name = f.GetSheetName(sel.Index)
		if name == "" {
			return "", nil, fmt.Errorf("sheet index %d out of range", sel.Index)
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return "", nil, err
	}
	return name, rows, nil
}

// writeCSV serializes rows to path in the given encoding, overwriting any
// existing file. No row-index column is added; the first row is the header.
func writeCSV(path string, rows [][]string, enc encoding.Encoding) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	tw := transform.NewWriter(f, enc.NewEncoder())
	w := csv.NewWriter(tw)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// resolveEncoding maps a user-supplied encoding label (e.g. "utf-8",
// "euc-kr") to an encoder via the WHATWG index.
func resolveEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	return htmlindex.Get(name)
}

// report invokes the reporter but never lets a panicking callback interrupt
// the run; faults go to stderr as a fallback channel.
func report(r Reporter, msg string) {
	if r == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(os.Stderr, "report callback error: %v\n", rec)
		}
	}()
	r.Report(msg)
}
