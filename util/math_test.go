package util

import (
	"testing"

	"lukechampine.com/uint128"
)

func TestMD5Hash(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"def", "4ed9407630eb1000c0f6b63842defa7d"},
		{"thisIsAKey", "a8435849961afab615c0665d437c6d7e"},
		{"localhost:8080", "9f5ffc7a10e0bad054458b089947ce2f"},
	}

	for _, test := range tests {
		if res := MD5Hash(test.key); res != test.expected {
			t.Errorf("MD5Hash(%s) = %s but expected %s", test.key, res, test.expected)
		}
	}
}

func TestMD5ToUint128(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"HKOVRjmBFF", "135689515723221422458089658349367448353"},
		{"abc", "191415658344158766168031473277922803570"},
	}

	for _, test := range tests {
		u, err := uint128.FromString(test.expected)
		if err != nil {
			t.Fatalf("uint128.FromString(%s) conversion failed: %v", test.expected, err)
		}

		if res := MD5HashUint128(test.key); !u.Equals(res) {
			t.Errorf("MD5HashUint128(%s) = %s but expected %s", test.key, res, test.expected)
		}
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		key string
		n   int
		r   int
	}{
		{"abc", 2, 0},
		{"abc", 1, 0},
		{"abc", 0, 0},
		{"abc", 10, 0},
		{"HKOVRjmBFF", 10, 3},
	}

	for _, test := range tests {
		if res := Partition(test.key, test.n); res != test.r {
			t.Errorf("Partition(%s, %d) = %d but expected %d", test.key, test.n, res, test.r)
		}
	}
}

func TestPartitionStable(t *testing.T) {
	for _, key := range []string{"foo", "bar", "maciej a.", "plus"} {
		a, b := Partition(key, 7), Partition(key, 7)
		if a != b {
			t.Errorf("Partition(%s, 7) is not stable: %d != %d", key, a, b)
		}

		if a < 0 || a >= 7 {
			t.Errorf("Partition(%s, 7) = %d is out of range", key, a)
		}
	}
}
