package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spicery/streamscan/pkg/pattern"
	"github.com/spicery/streamscan/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanObservesScheduler(t *testing.T) {
	m := NewScan()
	var bindings []scanner.Binding
	for _, p := range pattern.DefaultPatterns() {
		bindings = append(bindings, scanner.Binding{Pattern: p})
	}
	s, err := scanner.NewScheduler(bindings, scanner.WithObserver(m))
	require.NoError(t, err)
	require.NoError(t, s.Run(strings.NewReader("mul(1,2)do()mul(3,4)")))

	assert.Equal(t, float64(20), testutil.ToFloat64(m.bytes))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.completions.WithLabelValues("mul")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.completions.WithLabelValues("do")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewScan()
	m.ObserveBytes(5)
	m.ObserveInput(nil)
	m.ObserveInput(errors.New("boom"))

	path := filepath.Join(t.TempDir(), "scan.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "streamscan_bytes_scanned_total 5")
	assert.Contains(t, text, `streamscan_inputs_total{outcome="ok"} 1`)
	assert.Contains(t, text, `streamscan_inputs_total{outcome="error"} 1`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "scan.prom"))
	assert.ErrorContains(t, err, "unable to write metrics")
}
