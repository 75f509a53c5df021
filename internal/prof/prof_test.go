package prof_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/prof"
)

func TestSession(t *testing.T) {
	dir := t.TempDir()
	opts := prof.Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	s, err := prof.Start(opts)
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	for _, p := range []string{opts.CPU, opts.Mem, opts.Trace} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}
}

func TestStartFailure(t *testing.T) {
	_, err := prof.Start(prof.Options{Trace: filepath.Join(t.TempDir(), "missing", "trace.out")})
	assert.Error(t, err)

	// CPU-профиль должен быть остановлен, повторный старт работает
	s, err := prof.Start(prof.Options{CPU: filepath.Join(t.TempDir(), "cpu.pprof")})
	require.NoError(t, err)
	assert.NoError(t, s.Stop())
}

func TestNilSession(t *testing.T) {
	var s *prof.Session
	assert.NoError(t, s.Stop())
}
