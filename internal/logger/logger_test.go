package logger

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T, w io.Writer) *DefaultLogger {
	t.Helper()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	return &DefaultLogger{writer: w, log: zerolog.New(w)}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(" INFO "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("nonsense"))
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(t, &buf)

	l.SetLogLevel("WARN")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	modLog := l.Module("download")
	modLog.Error().Msg("module")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"module":"download"`)
}

func TestSetLogLevel_ConcurrentWithLogging(t *testing.T) {
	l := newTestLogger(t, io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Info().Int("j", j).Msg("tick")
				sub := l.With().Str("k", "v").Logger()
				sub.Debug().Msg("sub")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%2 == 0 {
					l.SetLogLevel("DEBUG")
				} else {
					l.SetLogLevel("ERROR")
				}
			}
		}()
	}
	wg.Wait()

	l.SetLogLevel("INFO")
	assert.Equal(t, zerolog.InfoLevel, l.level)
}
