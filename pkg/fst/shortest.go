package fst

import (
	"container/heap"
	"math"
	"strings"
)

// Path is one accepting path: its arcs in traversal order and its total
// weight, final weight included.
type Path struct {
	Arcs   []Arc
	Weight float64
}

// InputString renders the path's non-epsilon input labels through t.
func (p Path) InputString(t *SymbolTable) string {
	return p.labelString(t, false)
}

// OutputString renders the path's non-epsilon output labels through t.
func (p Path) OutputString(t *SymbolTable) string {
	return p.labelString(t, true)
}

func (p Path) labelString(t *SymbolTable, output bool) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, a := range p.Arcs {
		l := a.In
		if output {
			l = a.Out
		}
		if l != Epsilon {
			b.WriteString(t.Name(l))
		}
	}
	return b.String()
}

// ShortestPaths returns up to n accepting paths of f in order of
// non-decreasing weight. Requesting more paths than exist returns all of
// them; an empty language returns nil.
//
// Search is A* over the path tree with the exact reverse shortest distance
// as heuristic. Equal-weight paths are ordered by discovery: states are
// expanded lowest-cost first and their arcs pushed in arc order, with a
// monotone sequence number breaking every remaining tie, so results are
// reproducible bit for bit across runs.
func ShortestPaths(f *Fst, n int) []Path {
	if n <= 0 || f.start == NoState {
		return nil
	}
	h := reverseDistances(f)
	if math.IsInf(h[f.start], 1) {
		return nil
	}

	type node struct {
		state  StateID
		g      float64
		parent int32
		arc    Arc
	}
	nodes := []node{{state: f.start, parent: -1}}

	pq := &pathQueue{}
	heap.Push(pq, pathItem{priority: h[f.start]})
	var seq int64 = 1
	expansions := make([]int, f.NumStates())

	var out []Path
	for pq.Len() > 0 && len(out) < n {
		it := heap.Pop(pq).(pathItem)
		if it.complete {
			arcs := make([]Arc, 0, 8)
			for i := it.node; nodes[i].parent >= 0; i = nodes[i].parent {
				arcs = append(arcs, nodes[i].arc)
			}
			for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
				arcs[i], arcs[j] = arcs[j], arcs[i]
			}
			out = append(out, Path{Arcs: arcs, Weight: it.priority})
			continue
		}
		nd := nodes[it.node]
		expansions[nd.state]++
		if expansions[nd.state] > n {
			continue
		}
		if f.IsFinal(nd.state) {
			heap.Push(pq, pathItem{
				priority: nd.g + f.finals[nd.state],
				seq:      seq,
				node:     it.node,
				complete: true,
			})
			seq++
		}
		for _, a := range f.arcs[nd.state] {
			if math.IsInf(h[a.Next], 1) {
				continue
			}
			g := nd.g + a.Weight
			nodes = append(nodes, node{state: a.Next, g: g, parent: it.node, arc: a})
			heap.Push(pq, pathItem{priority: g + h[a.Next], seq: seq, node: int32(len(nodes) - 1)})
			seq++
		}
	}
	return out
}

// ShortestPath returns the single best accepting path, or ok=false for the
// empty language.
func ShortestPath(f *Fst) (Path, bool) {
	ps := ShortestPaths(f, 1)
	if len(ps) == 0 {
		return Path{}, false
	}
	return ps[0], true
}

// reverseDistances returns, per state, the weight of the cheapest
// continuation to acceptance, final weight included. +Inf marks states
// that cannot reach a final state.
func reverseDistances(f *Fst) []float64 {
	n := f.NumStates()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	type revArc struct {
		from StateID
		w    float64
	}
	rev := make([][]revArc, n)
	for s := range f.arcs {
		for _, a := range f.arcs[s] {
			rev[a.Next] = append(rev[a.Next], revArc{StateID(s), a.Weight})
		}
	}
	h := &distHeap{}
	for s := 0; s < n; s++ {
		if f.IsFinal(StateID(s)) {
			dist[s] = f.finals[s]
			heap.Push(h, closureEntry{state: StateID(s), dist: dist[s]})
		}
	}
	for h.Len() > 0 {
		cur := heap.Pop(h).(closureEntry)
		if cur.dist > dist[cur.state] {
			continue
		}
		for _, ra := range rev[cur.state] {
			if nd := cur.dist + ra.w; nd < dist[ra.from] {
				dist[ra.from] = nd
				heap.Push(h, closureEntry{state: ra.from, dist: nd})
			}
		}
	}
	return dist
}

type pathItem struct {
	priority float64
	seq      int64
	node     int32
	complete bool
}

type pathQueue []pathItem

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)   { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
