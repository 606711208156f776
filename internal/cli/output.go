package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/rentslot"
	"github.com/unkn0wn-root/rentslot/codec"
)

var formats = map[string]bool{"json": true, "cbor": true, "msgpack": true, "proto": true}

// encodeSnapshot renders snap in format. Binary formats are hex-encoded.
func encodeSnapshot(format string, snap rentslot.Snapshot) (string, error) {
	var (
		b   []byte
		err error
	)
	switch format {
	case "json":
		b, err = codec.JSON[rentslot.Snapshot]{Indent: "  "}.Encode(snap)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "cbor":
		c, cerr := codec.NewCBOR[rentslot.Snapshot]()
		if cerr != nil {
			return "", cerr
		}
		b, err = c.Encode(snap)
	case "msgpack":
		b, err = codec.Msgpack[rentslot.Snapshot]{}.Encode(snap)
	case "proto":
		st, serr := structpb.NewStruct(snap.Map())
		if serr != nil {
			return "", serr
		}
		b, err = codec.NewProtobuf(func() *structpb.Struct { return &structpb.Struct{} }).Encode(st)
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func printResult(w io.Writer, name string, res rentslot.Result) {
	ch := res.Change
	fmt.Fprintf(w, "%s: %s %d->%d required=%d elements=%d revision=%d\n",
		name, ch.Direction, ch.From, ch.To, ch.Required, res.Record.Len(), res.Revision)
}
