package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/rentslot"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ResizeEvery    uint64
	TransferEvery  uint64
	DuplicateEvery uint64
	// Optional payer redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	resizeCtr   atomic.Uint64
	transferCtr atomic.Uint64
	dupCtr      atomic.Uint64
}

var _ rentslot.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(acct string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(acct)
	}
	sum := sha256.Sum256([]byte(acct))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Resized(s string, from, to int) {
	if h.l == nil || !sample(h.opts.ResizeEvery, &h.resizeCtr) {
		return
	}
	h.l.Debug("rentslot.resized",
		"slot", s,
		"from", from,
		"to", to)
}

func (h *Hooks) Funded(s, payer string, amount uint64) {
	if h.l == nil || !sample(h.opts.TransferEvery, &h.transferCtr) {
		return
	}
	h.l.Debug("rentslot.funded",
		"slot", s,
		"payer", h.redact(payer),
		"amount", amount)
}

func (h *Hooks) Refunded(s, payer string, amount uint64) {
	if h.l == nil || !sample(h.opts.TransferEvery, &h.transferCtr) {
		return
	}
	h.l.Debug("rentslot.refunded",
		"slot", s,
		"payer", h.redact(payer),
		"amount", amount)
}

func (h *Hooks) FundingFailed(s string, required uint64, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rentslot.funding_failed",
		"slot", s,
		"required", required,
		"err", err)
}

func (h *Hooks) ResizeRolledBack(s string, from, to int) {
	if h.l == nil {
		return
	}
	h.l.Info("rentslot.resize_rolled_back",
		"slot", s,
		"from", from,
		"to", to)
}

func (h *Hooks) InconsistentWindow(s string, declared, actual int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("rentslot.inconsistent_window",
		"slot", s,
		"declared", declared,
		"actual", actual,
		"err", err)
}

func (h *Hooks) DuplicateRejected(s string) {
	if h.l == nil || !sample(h.opts.DuplicateEvery, &h.dupCtr) {
		return
	}
	h.l.Info("rentslot.duplicate_rejected", "slot", s)
}
