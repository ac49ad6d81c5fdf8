package store

import "encoding/binary"

const (
	bookPrefix  = "book:"
	orderPrefix = "order:"
	seqKey      = "meta:seq"
)

func bookKey(id string) []byte {
	return []byte(bookPrefix + id)
}

// orderKey sorts lexically in sequence order: the prefix followed by the
// big-endian sequence number.
func orderKey(seq uint64) []byte {
	buf := make([]byte, len(orderPrefix)+8)
	copy(buf, orderPrefix)
	binary.BigEndian.PutUint64(buf[len(orderPrefix):], seq)
	return buf
}
