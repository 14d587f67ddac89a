package util

import (
	"crypto/md5"
	"encoding/hex"

	"lukechampine.com/uint128"
)

func MD5Hash(val string) string {
	b := md5.Sum([]byte(val))
	return hex.EncodeToString(b[:])
}

func MD5HashUint128(val string) uint128.Uint128 {
	b := md5.Sum([]byte(val))
	return uint128.FromBytesBE(b[:])
}

// Partition maps a key onto one of n buckets by its MD5 hash.
func Partition(key string, n int) int {
	if n <= 1 {
		return 0
	}

	return int(MD5HashUint128(key).Mod64(uint64(n)))
}
