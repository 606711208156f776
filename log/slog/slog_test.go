package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/rentslot"
)

func TestAttrsSortedAndLevelled(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo}))}

	l.Debug("hidden", nil)
	l.Warn("slot resized", rentslot.Fields{"to": 36, "from": 4, "slot": "s1"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug should be filtered: %q", out)
	}
	iFrom, iSlot, iTo := strings.Index(out, "from=4"), strings.Index(out, "slot=s1"), strings.Index(out, "to=36")
	if iFrom < 0 || iSlot < iFrom || iTo < iSlot {
		t.Fatalf("attrs missing or unsorted: %q", out)
	}
}
