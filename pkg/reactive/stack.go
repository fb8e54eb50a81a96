package reactive

import rerrors "github.com/vango-dev/reflow/internal/errors"

// stack is the active-computation stack. A nil entry marks an untracked
// region: reads inside it register nothing.
type stack struct {
	items []*Computation
}

func (s *stack) push(c *Computation) {
	s.items = append(s.items, c)
}

// pop removes whatever is on top, which is not necessarily the computation
// that pushed last from the caller's point of view.
func (s *stack) pop() *Computation {
	n := len(s.items)
	if n == 0 {
		panic(rerrors.New("R004"))
	}
	top := s.items[n-1]
	s.items[n-1] = nil
	s.items = s.items[:n-1]
	return top
}

func (s *stack) top() *Computation {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *stack) depth() int {
	return len(s.items)
}
