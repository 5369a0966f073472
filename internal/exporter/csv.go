package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/domain"
)

// columns is the fixed export schema. Order matters for downstream consumers.
var columns = []string{
	"Congress",
	"Date",
	"Roll Call Number",
	"Legislation",
	"Vote Cast",
	"Question",
	"Bill Title",
	"Roll Call Vote URL",
}

// Exporter defines the interface for serializing vote records
type Exporter interface {
	// Export writes the records to a delimited file named after the member
	// and today's date, returning the path of the created file.
	Export(records []domain.VoteRecord, lastName string) (string, error)
}

// csvExporter writes vote records as CSV files
type csvExporter struct {
	outputDir string
	now       func() time.Time
	log       *zap.Logger
}

// NewCSV creates a new CSV exporter writing into outputDir
func NewCSV(outputDir string, log *zap.Logger) Exporter {
	return &csvExporter{
		outputDir: outputDir,
		now:       time.Now,
		log:       log,
	}
}

func (e *csvExporter) Export(records []domain.VoteRecord, lastName string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no vote records to export")
	}
	if lastName == "" {
		return "", fmt.Errorf("member last name is required for the export filename")
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", lastName, e.now().Format("20060102"))
	path := filepath.Join(e.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Congress),
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.RollCall),
			r.Legislation,
			string(r.Cast),
			r.Question,
			r.BillTitle,
			r.URL,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export file: %w", err)
	}

	e.log.Info("exported vote records",
		zap.String("path", path),
		zap.Int("count", len(records)))

	return path, nil
}
