package protocol

import (
	"bytes"
	"fmt"

	"github.com/edwingeng/deque/v2"
)

// Scanner cuts terminator-delimited frames out of a Receiver,
// issuing as many reads as a frame needs.
type Scanner struct {
	src     Receiver
	size    int
	buf     *bytes.Buffer
	frames  *deque.Deque[[]byte]
	pending int
}

func NewScanner(src Receiver, size int) *Scanner {
	return &Scanner{
		src:     src,
		size:    size,
		buf:     bytes.NewBuffer(make([]byte, 0, size)),
		frames:  deque.NewDeque[[]byte](),
		pending: MaxPending,
	}
}

// Scan returns the next frame including its terminator.
func (s *Scanner) Scan() ([]byte, error) {
	for s.frames.Len() == 0 {
		data, err := s.src.Receive(s.size)
		if err != nil {
			return nil, err
		}

		s.buf.Write(data)
		s.split()

		if s.buf.Len() > s.pending {
			n := s.buf.Len()
			s.buf.Reset()

			return nil, fmt.Errorf("%d bytes pending without a terminator: %w", n, ErrFraming)
		}
	}

	return s.frames.PopFront(), nil
}

// Buffered is the number of complete frames waiting to be scanned.
func (s *Scanner) Buffered() int {
	return s.frames.Len()
}

func (s *Scanner) split() {
	for {
		b := s.buf.Bytes()

		i := bytes.Index(b, []byte(Terminator))
		if i < 0 {
			return
		}

		frame := make([]byte, i+len(Terminator))
		copy(frame, b[:i+len(Terminator)])

		s.frames.PushBack(frame)
		s.buf.Next(len(frame))
	}
}
