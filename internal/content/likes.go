package content

import (
	"errors"
	"sync"
)

// ErrLikeLimit is returned when an item already tracks the maximum number
// of visitors.
var ErrLikeLimit = errors.New("like limit reached")

// DefaultMaxLikes bounds the visitors tracked per item.
const DefaultMaxLikes = 10000

// Likes tracks which visitors liked which achievements. Nothing is
// persisted; counts reset when the process restarts.
type Likes struct {
	mu    sync.Mutex
	max   int
	liked map[int]map[string]struct{}
}

// NewLikes tracks at most maxPerItem visitors per item; zero or less means
// DefaultMaxLikes.
func NewLikes(maxPerItem int) *Likes {
	if maxPerItem <= 0 {
		maxPerItem = DefaultMaxLikes
	}
	return &Likes{max: maxPerItem, liked: make(map[int]map[string]struct{})}
}

// Toggle flips visitor's like on item and reports the new state. Unliking
// always succeeds; a new like fails with ErrLikeLimit once item is full.
func (l *Likes) Toggle(item int, visitor string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.liked[item]
	if _, ok := set[visitor]; ok {
		delete(set, visitor)
		if len(set) == 0 {
			delete(l.liked, item)
		}
		return false, nil
	}
	if len(set) >= l.max {
		return false, ErrLikeLimit
	}
	if set == nil {
		set = make(map[string]struct{})
		l.liked[item] = set
	}
	set[visitor] = struct{}{}
	return true, nil
}

// Count is the number of visitors currently liking item.
func (l *Likes) Count(item int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.liked[item])
}

func (l *Likes) Liked(item int, visitor string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.liked[item][visitor]
	return ok
}

// Apply adds live counts to the stored like totals and reports which items
// visitor has liked.
func (l *Likes) Apply(items []Achievement, visitor string) (out []Achievement, liked map[int]bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out = make([]Achievement, len(items))
	liked = make(map[int]bool)
	for i, a := range items {
		set := l.liked[a.ID]
		a.Likes += len(set)
		if _, ok := set[visitor]; ok {
			liked[a.ID] = true
		}
		out[i] = a
	}
	return out, liked
}
