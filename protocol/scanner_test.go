package protocol

import (
	"errors"
	"testing"
)

type chunkReceiver struct {
	chunks [][]byte
}

func (r *chunkReceiver) Receive(maxBytes int) ([]byte, error) {
	if len(r.chunks) == 0 {
		return nil, ErrConnection
	}

	c := r.chunks[0]
	if len(c) > maxBytes {
		r.chunks[0] = c[maxBytes:]
		return c[:maxBytes], nil
	}

	r.chunks = r.chunks[1:]

	return c, nil
}

func chunks(s ...string) *chunkReceiver {
	r := chunkReceiver{}
	for i := range s {
		r.chunks = append(r.chunks, []byte(s[i]))
	}

	return &r
}

func TestScanSingle(t *testing.T) {
	s := NewScanner(chunks("bar\r\n"), MaxFrame)

	f, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}

	if string(f) != "bar\r\n" {
		t.Errorf("Scan() = %q", f)
	}
}

func TestScanAcrossReads(t *testing.T) {
	s := NewScanner(chunks("ba", "r\r", "\n"), MaxFrame)

	f, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}

	if string(f) != "bar\r\n" {
		t.Errorf("Scan() = %q", f)
	}
}

func TestScanQueuesFrames(t *testing.T) {
	s := NewScanner(chunks("0\r\nbar\r\n-1\r\nrest"), MaxFrame)

	for _, expected := range []string{"0\r\n", "bar\r\n", "-1\r\n"} {
		f, err := s.Scan()
		if err != nil {
			t.Fatal(err)
		}

		if string(f) != expected {
			t.Errorf("Scan() = %q but expected %q", f, expected)
		}
	}

	if n := s.Buffered(); n != 0 {
		t.Errorf("Buffered() = %d", n)
	}

	if _, err := s.Scan(); !errors.Is(err, ErrConnection) {
		t.Errorf("Scan() on exhausted source returned %v", err)
	}
}

func TestScanLargeFrame(t *testing.T) {
	value := make([]byte, 2000)
	for i := range value {
		value[i] = 'a' + byte(i%26)
	}

	s := NewScanner(chunks(string(value)+"\r\n"), MaxFrame)

	f, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}

	res, err := Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	if res != string(value) {
		t.Errorf("Scan() returned %d bytes, expected %d", len(res), len(value))
	}
}

func TestScanPendingLimit(t *testing.T) {
	s := NewScanner(chunks("aaaaaaaaaa", "aaaaaaaaaa"), 8)
	s.pending = 12

	if _, err := s.Scan(); !errors.Is(err, ErrFraming) {
		t.Errorf("Scan() returned %v but expected %v", err, ErrFraming)
	}
}
