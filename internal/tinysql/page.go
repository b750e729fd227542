package tinysql

import (
	"encoding/binary"
)

const (
	PageSize = 4096 // 4 kilobytes
	MaxPages = 64   // default page capacity of a single table file

	// NoPage marks an absent page reference, for example the next leaf
	// pointer of the last leaf. Page 0 is the root and a valid page.
	NoPage PageIndex = 0xFFFFFFFF
)

type PageIndex uint32

func marshalUint32(buf []byte, n uint32, i uint64) []byte {
	binary.LittleEndian.PutUint32(buf[i:i+4], n)
	return buf
}

func unmarshalUint32(buf []byte, i uint64) uint32 {
	return binary.LittleEndian.Uint32(buf[i : i+4])
}
