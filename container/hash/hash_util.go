package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"

	"github.com/heapstore/heapstore/types"
)

// HashValue hashes the serialized form of val. A Varchar is serialized at
// its own length, so equal strings hash equally whatever the column width.
func HashValue(val types.Value) uint32 {
	switch val.ValueType() {
	case types.Integer:
		buf := make([]byte, types.Integer.Size(0))
		val.SerializeTo(buf, 0)
		return GenHashMurMur(buf)
	case types.Varchar:
		maxLen := uint32(len(val.ToVarchar()))
		buf := make([]byte, types.Varchar.Size(maxLen))
		val.SerializeTo(buf, maxLen)
		return GenHashMurMur(buf)
	default:
		panic("not supported type!")
	}
}

func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	hash := h.Sum(nil)
	return binary.LittleEndian.Uint32(hash)
}
