package cli

import (
	"fmt"
	"io"
	stdslog "log/slog"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/rentslot"
	asynchook "github.com/unkn0wn-root/rentslot/hooks/async"
	logruslog "github.com/unkn0wn-root/rentslot/log/logrus"
	slogadapter "github.com/unkn0wn-root/rentslot/log/slog"
	zaplog "github.com/unkn0wn-root/rentslot/log/zap"
	"github.com/unkn0wn-root/rentslot/sloghooks"
)

// newLogger returns the Logger for name and a flush func.
func newLogger(name string, w io.Writer) (rentslot.Logger, func(), error) {
	switch name {
	case "none":
		return rentslot.NopLogger{}, func() {}, nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(w),
			zap.InfoLevel,
		)
		l := zap.New(core)
		return zaplog.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		return logruslog.LogrusLogger{E: logrus.NewEntry(l)}, func() {}, nil
	case "slog":
		return slogadapter.Logger{L: stdslog.New(stdslog.NewTextHandler(w, nil))}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", name)
	}
}

// newHooks logs high-signal events to w off the update path. Callers must
// Close the returned hooks to flush them.
func newHooks(w io.Writer) *asynchook.Hooks {
	raw := sloghooks.New(stdslog.New(stdslog.NewTextHandler(w, nil)), sloghooks.Options{})
	return asynchook.New(raw, 1, 256)
}
