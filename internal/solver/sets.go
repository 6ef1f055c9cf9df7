package solver

type void struct{}

type set[T comparable] map[T]void

func (s set[T]) add(v T) {
	s[v] = void{}
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

// diff returns the elements of s that are not in x.
func (s set[T]) diff(x set[T]) (result []T) {
	for v := range s {
		if !x.has(v) {
			result = append(result, v)
		}
	}
	return
}

func (s set[T]) equal(x set[T]) bool {
	if len(s) != len(x) {
		return false
	}
	for v := range s {
		if !x.has(v) {
			return false
		}
	}
	return true
}
