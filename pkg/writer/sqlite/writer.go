// Package sqlite writes generated isotopic patterns into a SQLite library
// file for downstream lookup.
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"github.com/mobiusklein/chemical-elements/pkg/pattern"
	_ "github.com/mattn/go-sqlite3"
)

// headerDateFormat is the ISO 8601 date written into HeaderTable.
const headerDateFormat = "2006-01-02"

// schemaVersion identifies the library layout for future readers.
const schemaVersion = 1

// Writer handles writing isotopic patterns to a SQLite library file.
type Writer struct {
	db          *sql.DB
	outputPath  string
	formulaStmt *sql.Stmt
	patternStmt *sql.Stmt
	formulaID   int
}

// NewWriter creates a library writer, building the schema and preparing the
// insert statements.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		formulaID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema.
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS FormulaTable (
		FormulaId INTEGER PRIMARY KEY,
		Formula TEXT NOT NULL,
		MonoisotopicMass DOUBLE NOT NULL,
		Charge INTEGER NOT NULL,
		NPeaks INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS PatternTable (
		PatternId INTEGER PRIMARY KEY,
		FormulaId INTEGER REFERENCES FormulaTable(FormulaId),
		BasePeakMZ DOUBLE NOT NULL,
		blobMZ BLOB,
		blobIntensity BLOB
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Generator TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion.
func (w *Writer) prepareStatements() error {
	var err error

	w.formulaStmt, err = w.db.Prepare(`
		INSERT INTO FormulaTable (FormulaId, Formula, MonoisotopicMass, Charge, NPeaks)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare formula statement: %w", err)
	}

	w.patternStmt, err = w.db.Prepare(`
		INSERT INTO PatternTable (PatternId, FormulaId, BasePeakMZ, blobMZ, blobIntensity)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pattern statement: %w", err)
	}

	return nil
}

// WritePattern writes one formula's generated pattern to the library.
func (w *Writer) WritePattern(formula string, comp *core.Composition, peaks pattern.Pattern, charge int) error {
	_, err := w.formulaStmt.Exec(
		w.formulaID,
		formula,
		comp.Mass(),
		charge,
		len(peaks),
	)
	if err != nil {
		return fmt.Errorf("failed to insert formula %q: %w", formula, err)
	}

	// Peak arrays are stored as parallel little-endian float64 blobs.
	mzBlob := encodePeaksFloat64(peaks, true)
	intBlob := encodePeaksFloat64(peaks, false)

	_, err = w.patternStmt.Exec(
		w.formulaID,
		w.formulaID,
		peaks.BasePeak().MZ,
		mzBlob,
		intBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pattern for %q: %w", formula, err)
	}

	w.formulaID++
	return nil
}

// Count returns the number of patterns written so far.
func (w *Writer) Count() int {
	return w.formulaID - 1
}

// encodePeaksFloat64 encodes one peak column as a little-endian float64 blob.
func encodePeaksFloat64(peaks pattern.Pattern, useMZ bool) []byte {
	buf := make([]byte, len(peaks)*8)
	for i, peak := range peaks {
		value := peak.Intensity
		if useMZ {
			value = peak.MZ
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(value))
	}
	return buf
}

// Finalize writes the header table and closes the database.
func (w *Writer) Finalize() error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Generator)
		VALUES (?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), "isopat")
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	if w.formulaStmt != nil {
		w.formulaStmt.Close()
	}
	if w.patternStmt != nil {
		w.patternStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize).
func (w *Writer) Close() error {
	return w.Finalize()
}
