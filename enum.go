package main

import (
	"iter"
	"slices"
)

// Problem shape.
const (
	numOperands = 6
	numSlots    = 5
	poolSize    = numOperands + numSlots
)

// candidateLengths are the arrangement lengths tried for every assignment.
var candidateLengths = [...]int{11, 9, 7, 5, 3}

var candidateDepth = func() (d [poolSize + 1]bool) {
	for _, n := range candidateLengths {
		d[n] = true
	}
	return d
}()

// isCandidateLength reports whether an arrangement of n tokens is a candidate.
func isCandidateLength(n int) bool {
	return n >= 0 && n < len(candidateDepth) && candidateDepth[n]
}

// assignment is one choice of operator for each of the five slots.
type assignment [numSlots]Kind

// assignments yields all len(operators)^numSlots assignments in odometer
// order, last slot fastest.
func assignments() iter.Seq[assignment] {
	return func(yield func(assignment) bool) {
		total := 1
		for range numSlots {
			total *= len(operators)
		}
		for i := range total {
			var a assignment
			n := i
			for s := numSlots - 1; s >= 0; s-- {
				a[s] = operators[n%len(operators)]
				n /= len(operators)
			}
			if !yield(a) {
				return
			}
		}
	}
}

// canonical returns the assignment with its slots sorted. Assignments with
// the same canonical form contribute the same token multiset to the pool and
// therefore the same candidates.
func (a assignment) canonical() assignment {
	slices.Sort(a[:])
	return a
}

// compareTokens orders operands before operators, then by value.
func compareTokens(x, y Token) int {
	if x.Kind != y.Kind {
		return int(x.Kind) - int(y.Kind)
	}
	switch {
	case x.Value < y.Value:
		return -1
	case x.Value > y.Value:
		return 1
	}
	return 0
}

// newPool builds the sorted token pool for one assignment. Equal tokens end
// up adjacent, which the walker relies on to skip duplicate arrangements.
func newPool(numbers [numOperands]uint64, a assignment) []Token {
	pool := make([]Token, 0, poolSize)
	for _, n := range numbers {
		pool = append(pool, Num(n))
	}
	for _, k := range a {
		pool = append(pool, Op(k))
	}
	slices.SortFunc(pool, compareTokens)
	return pool
}

// walker enumerates arrangements of a token pool depth first, evaluating
// each prefix as it goes. Arrangements whose prefix already fails to
// evaluate are never produced, and every candidate length is reported at
// the matching depth of a single walk.
type walker struct {
	pool  []Token
	dedup bool
	used  [maxTokens]bool
	path  [maxTokens]*Token
	stack [maxTokens]uint64
}

func newWalker(pool []Token, dedup bool) *walker {
	if len(pool) > maxTokens {
		panic("walker: pool too large")
	}
	return &walker{pool: pool, dedup: dedup}
}

// reset points the walker at a new pool.
func (w *walker) reset(pool []Token) {
	w.pool = pool
	w.used = [maxTokens]bool{}
}

// skip reports whether pool[i] cannot be placed next.
func (w *walker) skip(i int) bool {
	if w.used[i] {
		return true
	}
	return w.dedup && i > 0 && w.pool[i] == w.pool[i-1] && !w.used[i-1]
}

// candidates yields every evaluable candidate starting with pool[first],
// together with its value. The yielded Expression aliases walker state and
// is only valid until the next iteration.
func (w *walker) candidates(first int) iter.Seq2[Expression, uint64] {
	return func(yield func(Expression, uint64) bool) {
		if w.skip(first) {
			return
		}
		w.place(first, 0, 0, yield)
	}
}

// place puts pool[i] at position depth over a stack of height sp and walks
// the subtree below it. It returns false once yield asks to stop.
func (w *walker) place(i, depth, sp int, yield func(Expression, uint64) bool) bool {
	t := &w.pool[i]
	var savedB, savedA uint64
	if t.Kind == Number {
		w.stack[sp] = t.Value
		sp++
	} else {
		if sp < 2 {
			return true
		}
		v, ok := apply(t.Kind, w.stack[sp-2], w.stack[sp-1])
		if !ok {
			return true
		}
		savedB, savedA = w.stack[sp-2], w.stack[sp-1]
		w.stack[sp-2] = v
		sp--
	}
	w.used[i] = true
	w.path[depth] = t
	depth++

	more := true
	if isCandidateLength(depth) {
		more = yield(Expression(w.path[:depth]), w.stack[sp-1])
	}
	if more && depth < len(w.pool) {
		for j := range w.pool {
			if w.skip(j) {
				continue
			}
			if !w.place(j, depth, sp, yield) {
				more = false
				break
			}
		}
	}

	w.used[i] = false
	if t.Kind != Number {
		w.stack[sp-1], w.stack[sp] = savedB, savedA
	}
	return more
}

// all yields every evaluable candidate of the pool.
func (w *walker) all() iter.Seq2[Expression, uint64] {
	return func(yield func(Expression, uint64) bool) {
		for i := range w.pool {
			for e, v := range w.candidates(i) {
				if !yield(e, v) {
					return
				}
			}
		}
	}
}
