// Package rentslot keeps a slot's storage allocation and funding balance in
// step with the variable-length record stored in it.
//
// Components:
//   - Codec: record.Record <-> bytes, count(u32 le) | element(32) * count.
//   - Resizer: resizes the slot to the exact encoded size of a mutated record
//     and moves min_balance(|delta|) between the payer and the slot.
//   - Slot / Ledger: external collaborators (package slot), backed by any
//     provider.Provider (memory, BigCache, Ristretto, Redis).
//
// Update pattern:
//
//	rec := decode(slot.Read())   // fails with ErrCorruptLayout
//	rec  = rec.Append(key)       // or Remove
//	chg := resizer.Reconcile()   // resize + transfer, fails before any write
//	slot.Write(encode(rec))      // length checked against the layout
//
// One writer per slot: callers must serialize updates to the same slot.
package rentslot
