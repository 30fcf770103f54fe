package sqlite

import (
	"database/sql"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"github.com/mobiusklein/chemical-elements/pkg/pattern"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.db")

	w, err := NewWriter(path)
	require.NoError(t, err)

	comp := core.MustParse("C6H12O6")
	peaks, err := pattern.IsotopicVariants(comp, 5, 1)
	require.NoError(t, err)

	require.NoError(t, w.WritePattern("C6H12O6", comp, peaks, 1))
	assert.Equal(t, 1, w.Count())
	require.NoError(t, w.Finalize())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var formula string
	var mass float64
	var charge, npeaks int
	row := db.QueryRow("SELECT Formula, MonoisotopicMass, Charge, NPeaks FROM FormulaTable WHERE FormulaId = 1")
	require.NoError(t, row.Scan(&formula, &mass, &charge, &npeaks))
	assert.Equal(t, "C6H12O6", formula)
	assert.InDelta(t, 180.06339, mass, 1e-4)
	assert.Equal(t, 1, charge)
	assert.Equal(t, len(peaks), npeaks)

	var basePeak float64
	var mzBlob, intBlob []byte
	row = db.QueryRow("SELECT BasePeakMZ, blobMZ, blobIntensity FROM PatternTable WHERE FormulaId = 1")
	require.NoError(t, row.Scan(&basePeak, &mzBlob, &intBlob))
	assert.InDelta(t, peaks.BasePeak().MZ, basePeak, 1e-9)

	got := decodeBlobs(t, mzBlob, intBlob)
	require.Len(t, got, len(peaks))
	for i, pk := range peaks {
		assert.InDelta(t, pk.MZ, got[i].MZ, 1e-12)
		assert.InDelta(t, pk.Intensity, got[i].Intensity, 1e-12)
	}

	var version int
	row = db.QueryRow("SELECT version FROM HeaderTable")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestWriterMultiplePatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.db")

	w, err := NewWriter(path)
	require.NoError(t, err)

	for _, formula := range []string{"H2O", "C6H12O6", "C34H53O15N7"} {
		comp := core.MustParse(formula)
		peaks, err := pattern.IsotopicVariants(comp, 0, 1)
		require.NoError(t, err)
		require.NoError(t, w.WritePattern(formula, comp, peaks, 1))
	}
	assert.Equal(t, 3, w.Count())
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM PatternTable").Scan(&count))
	assert.Equal(t, 3, count)
}

// decodeBlobs rebuilds a peak list from the parallel blob columns.
func decodeBlobs(t *testing.T, mzBlob, intBlob []byte) pattern.Pattern {
	t.Helper()
	require.Equal(t, len(mzBlob), len(intBlob))
	require.Zero(t, len(mzBlob)%8)

	out := make(pattern.Pattern, len(mzBlob)/8)
	for i := range out {
		out[i].MZ = math.Float64frombits(binary.LittleEndian.Uint64(mzBlob[i*8:]))
		out[i].Intensity = math.Float64frombits(binary.LittleEndian.Uint64(intBlob[i*8:]))
	}
	return out
}
