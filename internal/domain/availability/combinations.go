package availability

import (
	"container/heap"
	"context"
	"math/bits"
	"sort"
	"sync"

	"hotelpms/internal/domain/inventory"
)

const (
	// cancellation is polled every this many subsets.
	cancelCheckEvery = 512
	// MaxCombinationSize caps how many rooms one combination may join.
	MaxCombinationSize = 4
)

type sizeResult struct {
	combos   []Combination
	complete bool
}

// searchCombinations looks for sets of 2..maxSize rooms whose capacities add up to at
// least guests and where no room could be dropped. Sizes are searched concurrently;
// once a size finishes with a match every larger size is called off, and the smallest
// size with any match wins. The returned flag is false if the context ended before
// every size that could matter was searched.
func searchCombinations(ctx context.Context, rooms []inventory.Room, guests int, tags []string, maxSize, limit int) ([]Combination, bool) {
	if maxSize < 2 || len(rooms) < 2 || limit <= 0 {
		return nil, true
	}
	maxSize = min(maxSize, MaxCombinationSize, len(rooms))

	scorer := newTagScorer(rooms, tags)
	ctxs := make([]context.Context, maxSize+1)
	cancels := make([]context.CancelFunc, maxSize+1)
	for k := 2; k <= maxSize; k++ {
		ctxs[k], cancels[k] = context.WithCancel(ctx)
	}
	defer func() {
		for k := 2; k <= maxSize; k++ {
			cancels[k]()
		}
	}()

	results := make([]sizeResult, maxSize+1)
	var wg sync.WaitGroup
	for k := 2; k <= maxSize; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[k] = searchSize(ctxs[k], rooms, guests, scorer, k, limit)
			if results[k].complete && len(results[k].combos) > 0 {
				for j := k + 1; j <= maxSize; j++ {
					cancels[j]()
				}
			}
		}()
	}
	wg.Wait()

	complete := true
	for k := 2; k <= maxSize; k++ {
		r := results[k]
		complete = complete && r.complete
		if len(r.combos) > 0 {
			return r.combos, complete
		}
	}
	return nil, complete
}

// searchSize enumerates k-subsets of rooms in index order and keeps the best limit
// of them. Rooms are only copied for subsets that make it into the kept set.
func searchSize(ctx context.Context, rooms []inventory.Room, guests int, scorer *tagScorer, k, limit int) sizeResult {
	n := len(rooms)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	best := &candidateHeap{rooms: rooms}
	scratch := scorer.scratch()

	complete := true
	for iter := 0; ; iter++ {
		if iter%cancelCheckEvery == 0 && ctx.Err() != nil {
			complete = false
			break
		}

		sum, smallest := 0, rooms[idx[0]].MaxPeople
		for _, i := range idx {
			c := rooms[i].MaxPeople
			sum += c
			if c < smallest {
				smallest = c
			}
		}
		if sum >= guests && sum-smallest < guests {
			cand := candidate{excess: sum - guests, score: scorer.score(idx, scratch), idx: idx}
			best.offer(cand, limit)
		}

		// advance to the next subset
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	return sizeResult{combos: best.combinations(guests), complete: complete}
}

type candidate struct {
	excess int
	score  float64
	idx    []int
}

// candidateHeap holds the best candidates seen so far with the worst on top.
type candidateHeap struct {
	rooms []inventory.Room
	items []candidate
}

func (h *candidateHeap) Len() int           { return len(h.items) }
func (h *candidateHeap) Less(i, j int) bool { return h.better(h.items[j], h.items[i]) }
func (h *candidateHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x any)         { h.items = append(h.items, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// better orders by capacity closest to guests, then tag match, then room ids.
func (h *candidateHeap) better(a, b candidate) bool {
	if a.excess != b.excess {
		return a.excess < b.excess
	}
	if a.score != b.score {
		return a.score > b.score
	}
	for x := range a.idx {
		ia, ib := h.rooms[a.idx[x]].ID, h.rooms[b.idx[x]].ID
		if ia != ib {
			return ia < ib
		}
	}
	return false
}

// offer keeps c if fewer than limit are held or c beats the current worst. c.idx is
// copied on the way in.
func (h *candidateHeap) offer(c candidate, limit int) {
	if len(h.items) < limit {
		c.idx = append([]int(nil), c.idx...)
		heap.Push(h, c)
		return
	}
	worst := &h.items[0]
	if !h.better(c, *worst) {
		return
	}
	worst.excess, worst.score = c.excess, c.score
	copy(worst.idx, c.idx)
	heap.Fix(h, 0)
}

// combinations drains the heap best first and builds the room sets.
func (h *candidateHeap) combinations(guests int) []Combination {
	if len(h.items) == 0 {
		return nil
	}
	sort.Slice(h.items, func(i, j int) bool { return h.better(h.items[i], h.items[j]) })

	out := make([]Combination, 0, len(h.items))
	for _, c := range h.items {
		members := make([]inventory.Room, len(c.idx))
		for j, i := range c.idx {
			members[j] = h.rooms[i]
		}
		out = append(out, Combination{
			Rooms:         members,
			TotalCapacity: guests + c.excess,
			TagScore:      c.score,
		})
	}
	return out
}

// tagScorer scores room subsets against the wanted tags without building tag unions.
// Each room carries a bitset over the distinct wanted tags.
type tagScorer struct {
	want    int
	weights []int
	masks   [][]uint64
	words   int
}

func newTagScorer(rooms []inventory.Room, want []string) *tagScorer {
	s := &tagScorer{want: len(want)}
	if len(want) == 0 {
		return s
	}
	bit := map[string]int{}
	for _, t := range want {
		b, ok := bit[t]
		if !ok {
			b = len(s.weights)
			bit[t] = b
			s.weights = append(s.weights, 0)
		}
		s.weights[b]++
	}
	s.words = (len(s.weights) + 63) / 64
	s.masks = make([][]uint64, len(rooms))
	for i, r := range rooms {
		m := make([]uint64, s.words)
		for _, t := range r.Tags {
			if b, ok := bit[t]; ok {
				m[b/64] |= 1 << (b % 64)
			}
		}
		s.masks[i] = m
	}
	return s
}

func (s *tagScorer) scratch() []uint64 { return make([]uint64, s.words) }

// score is the same ratio tagScore gives for the union of the rooms' tags.
func (s *tagScorer) score(idx []int, scratch []uint64) float64 {
	if s.want == 0 {
		return 0
	}
	clear(scratch)
	for _, i := range idx {
		for w, v := range s.masks[i] {
			scratch[w] |= v
		}
	}
	matched := 0
	for w, v := range scratch {
		for v != 0 {
			b := bits.TrailingZeros64(v)
			matched += s.weights[w*64+b]
			v &= v - 1
		}
	}
	return float64(matched) / float64(s.want)
}

// tagScore is |have ∩ want| / max(1, |want|).
func tagScore(have, want []string) float64 {
	if len(want) == 0 {
		return 0
	}
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	matched := 0
	for _, t := range want {
		if set[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}
