package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/unkn0wn-root/rentslot/record"
	"github.com/unkn0wn-root/rentslot/slot"
)

type opKind int

const (
	opInit opKind = iota
	opAdd
	opRemove
	opFund
	opShow
)

type op struct {
	kind    opKind
	key     record.Element
	account slot.Account
	amount  int64
}

// parseOps validates the whole op list before anything touches a slot.
func parseOps(args []string) ([]op, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no ops given (init, add <key>, remove <key>, fund <account> <amount>, show)")
	}
	var out []op
	for i := 0; i < len(args); i++ {
		need := func(n int) error {
			if i+n >= len(args) {
				return fmt.Errorf("%s: expected %d argument(s)", args[i], n)
			}
			return nil
		}
		switch args[i] {
		case "init":
			out = append(out, op{kind: opInit})
		case "show":
			out = append(out, op{kind: opShow})
		case "add", "remove":
			if err := need(1); err != nil {
				return nil, err
			}
			kind := opAdd
			if args[i] == "remove" {
				kind = opRemove
			}
			out = append(out, op{kind: kind, key: parseKey(args[i+1])})
			i++
		case "fund":
			if err := need(2); err != nil {
				return nil, err
			}
			amt, err := strconv.ParseUint(args[i+2], 10, 64)
			if err != nil || amt > math.MaxInt64 {
				return nil, fmt.Errorf("fund: invalid amount %q", args[i+2])
			}
			out = append(out, op{kind: opFund, account: slot.Account(args[i+1]), amount: int64(amt)})
			i += 2
		default:
			return nil, fmt.Errorf("unknown op %q", args[i])
		}
	}
	return out, nil
}

// parseKey accepts a hex-encoded element; anything else is a label.
func parseKey(s string) record.Element {
	if e, err := record.ParseElement(s); err == nil {
		return e
	}
	return record.DeriveElement(s)
}
