// Package canonical implements the deterministic field encoding and hashing
// that identifies every artifact on the ledger. The encoding is a byte
// contract shared with every other implementation: fields sorted by key,
// values rendered verbatim, joined with commas. Changing any part of it
// changes every hash on the chain.
package canonical

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	sha256 "github.com/minio/sha256-simd"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrUnsupportedValue indicates a field value that is neither an integer
// nor a string reached the encoding layer.
var ErrUnsupportedValue = errors.New("field values must be integers or strings")

// =============================================================================

// Kind identifies which of the two supported types a Value carries.
type Kind int

// Set of value kinds a field may carry.
const (
	KindInt Kind = iota + 1
	KindString
)

// Value is one field value. Values are constructed through Int or String so
// the encoding functions never meet an unsupported type at runtime.
type Value struct {
	kind Kind
	num  int64
	str  string
}

// Int constructs an integer value.
func Int(v int64) Value {
	return Value{kind: KindInt, num: v}
}

// String constructs a string value.
func String(v string) Value {
	return Value{kind: KindString, str: v}
}

// FromAny converts a decoded JSON value into a Value. Only strings and
// whole numbers are accepted. Floats, booleans, nulls, and nested
// structures report ErrUnsupportedValue.
func FromAny(v any) (Value, error) {
	switch tv := v.(type) {
	case string:
		return String(tv), nil
	case json.Number:
		num, err := strconv.ParseInt(tv.String(), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("number %q: %w", tv.String(), ErrUnsupportedValue)
		}
		return Int(num), nil
	case int:
		return Int(int64(tv)), nil
	case int64:
		return Int(tv), nil
	}

	return Value{}, fmt.Errorf("type %T: %w", v, ErrUnsupportedValue)
}

// Kind returns which type this value carries.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the integer payload. It is only meaningful for KindInt.
func (v Value) Int() int64 {
	return v.num
}

// String renders the value exactly as it participates in the encoding:
// plain decimal for integers, the raw text for strings.
func (v Value) String() string {
	if v.kind == KindInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// MarshalJSON keeps integers as JSON numbers so an archived record hashes
// the same after a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10)), nil
	case KindString:
		return json.Marshal(v.str)
	}

	return nil, ErrUnsupportedValue
}

// =============================================================================

// Field is a single key/value pair of a ledger record.
type Field struct {
	Key   string
	Value Value
}

// Serialize encodes the fields into the one canonical string: keys sorted
// ascending byte order, values rendered with Value.String, joined with
// commas. The input slice is left untouched.
func Serialize(fields []Field) string {
	ordered := make([]Field, len(fields))
	copy(ordered, fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Key < ordered[j].Key
	})

	var sb strings.Builder
	for i, field := range ordered {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(field.Value.String())
	}

	return sb.String()
}

// Hash returns the prefixed hex digest of the fields' canonical string.
func Hash(fields []Field) string {
	return HashString(Serialize(fields))
}

// HashString returns "0x" plus the lowercase hex SHA256 digest of s.
func HashString(s string) string {
	digest := sha256.Sum256([]byte(s))
	return hexutil.Encode(digest[:])
}
