package lite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		for _, level := range []LogLevel{LogLevelDev, LogLevelProd, LogLevelSilent} {
			l, err := newZapLogger(level)
			assert.NoError(t, err)
			assert.NotNil(t, l)
		}
		_, err := newZapLogger(LogLevel(42))
		assert.Error(t, err)
	})
	t.Run("prefixes", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewLogger(zap.New(core))
		l.Debugf("a %d", 1)
		l.Infof("b")
		l.Warnf("c")
		l.Errorf("d %s", "x")

		var messages []string
		for _, entry := range logs.All() {
			messages = append(messages, entry.Message)
		}
		assert.Equal(t, []string{"[DEBUG] a 1", "[INFO] b", "[WARN] c", "[ERROR] d x"}, messages)
	})
}
