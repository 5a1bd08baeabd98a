// Package database handles the transaction and block types that make up
// the ledger, the proof of work over them, and their validation.
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
)

// Field keys every transaction must carry for selection and fee ordering.
const (
	keyLockTime = "lock_time"
	keyFee      = "transaction_fee"
)

// Tx is one ledger transaction: the two bookkeeping fields every
// transaction must carry, plus whatever extra fields the submitter chose.
// Extra values are integers or strings, nothing else ever gets in.
type Tx struct {
	LockTime int64             // Unix time before which the transaction can't be mined.
	Fee      int64             // Fee offered for inclusion, drives selection order.
	Extra    []canonical.Field // Open ended remainder of the record.
}

// NewTx constructs a transaction and validates the extra fields once, so
// the hashing path never meets a value it can't encode.
func NewTx(lockTime int64, fee int64, extra ...canonical.Field) (Tx, error) {
	seen := map[string]bool{keyLockTime: true, keyFee: true}
	for _, field := range extra {
		if field.Key == "" {
			return Tx{}, errors.New("extra field with an empty key")
		}
		if seen[field.Key] {
			return Tx{}, fmt.Errorf("duplicate field %q", field.Key)
		}
		if k := field.Value.Kind(); k != canonical.KindInt && k != canonical.KindString {
			return Tx{}, fmt.Errorf("field %q: %w", field.Key, canonical.ErrUnsupportedValue)
		}
		seen[field.Key] = true
	}

	tx := Tx{
		LockTime: lockTime,
		Fee:      fee,
		Extra:    append([]canonical.Field(nil), extra...),
	}

	return tx, nil
}

// fields assembles the complete field set the canonical encoding runs on.
func (tx Tx) fields() []canonical.Field {
	fields := make([]canonical.Field, 0, len(tx.Extra)+2)
	fields = append(fields,
		canonical.Field{Key: keyLockTime, Value: canonical.Int(tx.LockTime)},
		canonical.Field{Key: keyFee, Value: canonical.Int(tx.Fee)},
	)

	return append(fields, tx.Extra...)
}

// Hash returns the canonical hash that identifies this transaction.
func (tx Tx) Hash() string {
	return canonical.Hash(tx.fields())
}

// MarshalJSON flattens the transaction into the one level object the
// archive format and the API exchange.
func (tx Tx) MarshalJSON() ([]byte, error) {
	flat := make(map[string]canonical.Value, len(tx.Extra)+2)
	for _, field := range tx.fields() {
		flat[field.Key] = field.Value
	}

	return json.Marshal(flat)
}

// UnmarshalJSON rebuilds a transaction from its flat object form. Numbers
// decode through json.Number so integer fields survive exactly, and any
// value that is neither an integer nor a string fails the decode.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var txn Tx
	var haveLockTime, haveFee bool
	extra := make([]canonical.Field, 0, len(raw))

	for key, rawValue := range raw {
		value, err := canonical.FromAny(rawValue)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		switch key {
		case keyLockTime:
			if value.Kind() != canonical.KindInt {
				return fmt.Errorf("field %q must be an integer", key)
			}
			txn.LockTime = value.Int()
			haveLockTime = true

		case keyFee:
			if value.Kind() != canonical.KindInt {
				return fmt.Errorf("field %q must be an integer", key)
			}
			txn.Fee = value.Int()
			haveFee = true

		default:
			extra = append(extra, canonical.Field{Key: key, Value: value})
		}
	}

	if !haveLockTime {
		return fmt.Errorf("missing required field %q", keyLockTime)
	}
	if !haveFee {
		return fmt.Errorf("missing required field %q", keyFee)
	}

	// Map iteration order is random, keep the rebuilt record deterministic.
	sort.Slice(extra, func(i, j int) bool {
		return extra[i].Key < extra[j].Key
	})

	txn.Extra = extra
	*tx = txn

	return nil
}
