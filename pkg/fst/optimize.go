package fst

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrStateLimit is returned by [Optimize] when determinization would exceed
// the configured state budget. Grammar assembly maps it onto its build
// budget error so an oversized sub-grammar fails loudly at build time
// instead of exhausting memory at request time.
var ErrStateLimit = errors.New("fst: state limit exceeded")

// OptimizeOption configures [Optimize].
type OptimizeOption func(*optimizeConfig)

type optimizeConfig struct {
	stateLimit int
}

// WithStateLimit caps the number of states determinization may create.
// Zero means unlimited.
func WithStateLimit(n int) OptimizeOption {
	return func(c *optimizeConfig) { c.stateLimit = n }
}

// Optimize returns an equivalent transducer with pure-epsilon arcs removed,
// label-equivalent paths merged and unreachable states trimmed, preserving
// the exact weighted relation: every accepted pair keeps its best weight.
// Arc labels are encoded into input/output pairs before determinization so
// that arbitrary transducers, not just functional ones, can be optimized.
//
// The context bounds the potentially expensive determinization step;
// cancellation or deadline expiry aborts with the context's error.
func Optimize(ctx context.Context, f *Fst, opts ...OptimizeOption) (*Fst, error) {
	var cfg optimizeConfig
	for _, o := range opts {
		o(&cfg)
	}
	g := Connect(f)
	if g.start == NoState {
		return g, nil
	}
	g = RemoveEpsilon(g)
	enc, pairs := encodePairs(g)
	det, err := determinize(ctx, enc, cfg.stateLimit)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	out := decodePairs(minimize(det), pairs, f.syms)
	return Connect(out), nil
}

// Connect returns an equivalent transducer keeping only states that are
// both reachable from the start and able to reach a final state. The empty
// language comes back as a transducer with no states.
func Connect(f *Fst) *Fst {
	if f.start == NoState {
		return New(f.syms)
	}
	n := len(f.arcs)

	fwd := make([]bool, n)
	stack := []StateID{f.start}
	fwd[f.start] = true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range f.arcs[s] {
			if !fwd[a.Next] {
				fwd[a.Next] = true
				stack = append(stack, a.Next)
			}
		}
	}

	rev := make([][]StateID, n)
	for s := range f.arcs {
		for _, a := range f.arcs[s] {
			rev[a.Next] = append(rev[a.Next], StateID(s))
		}
	}
	bwd := make([]bool, n)
	for s := 0; s < n; s++ {
		if f.IsFinal(StateID(s)) && !bwd[s] {
			bwd[s] = true
			stack = append(stack, StateID(s))
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[s] {
			if !bwd[p] {
				bwd[p] = true
				stack = append(stack, p)
			}
		}
	}

	remap := make([]StateID, n)
	res := New(f.syms)
	for s := 0; s < n; s++ {
		if fwd[s] && bwd[s] {
			remap[s] = res.AddState()
		} else {
			remap[s] = NoState
		}
	}
	if remap[f.start] == NoState {
		return New(f.syms)
	}
	res.SetStart(remap[f.start])
	for s := 0; s < n; s++ {
		ns := remap[s]
		if ns == NoState {
			continue
		}
		res.finals[ns] = f.finals[s]
		for _, a := range f.arcs[s] {
			if remap[a.Next] == NoState {
				continue
			}
			res.AddArc(ns, Arc{a.In, a.Out, a.Weight, remap[a.Next]})
		}
	}
	return res
}

// RemoveEpsilon returns an equivalent transducer without arcs that are
// epsilon on both sides. Arcs with epsilon on a single side (insertions and
// deletions) are kept: they carry the transduction itself. Weights of the
// removed arcs are folded into their successors via a per-state shortest
// epsilon distance, so best weights are unchanged.
func RemoveEpsilon(f *Fst) *Fst {
	if f.start == NoState {
		return New(f.syms)
	}
	res := New(f.syms)
	for range f.arcs {
		res.AddState()
	}
	res.SetStart(f.start)

	for s := range f.arcs {
		closure := epsilonClosure(f, StateID(s))
		final := math.Inf(1)
		for _, ce := range closure {
			if w := ce.dist + f.finals[ce.state]; w < final {
				final = w
			}
			for _, a := range f.arcs[ce.state] {
				if a.In == Epsilon && a.Out == Epsilon {
					continue
				}
				res.AddArc(StateID(s), Arc{a.In, a.Out, ce.dist + a.Weight, a.Next})
			}
		}
		res.finals[s] = final
	}
	return Connect(res)
}

type closureEntry struct {
	state StateID
	dist  float64
}

// epsilonClosure returns the states reachable from s through pure-epsilon
// arcs with their shortest distances, ordered by state ID. s itself is
// included at distance 0.
func epsilonClosure(f *Fst, s StateID) []closureEntry {
	dist := map[StateID]float64{s: 0}
	h := &distHeap{{state: s, dist: 0}}
	for h.Len() > 0 {
		cur := heap.Pop(h).(closureEntry)
		if cur.dist > dist[cur.state] {
			continue
		}
		for _, a := range f.arcs[cur.state] {
			if a.In != Epsilon || a.Out != Epsilon {
				continue
			}
			nd := cur.dist + a.Weight
			if d, ok := dist[a.Next]; !ok || nd < d {
				dist[a.Next] = nd
				heap.Push(h, closureEntry{state: a.Next, dist: nd})
			}
		}
	}
	out := make([]closureEntry, 0, len(dist))
	for st, d := range dist {
		out = append(out, closureEntry{state: st, dist: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].state < out[j].state })
	return out
}

type distHeap []closureEntry

func (h distHeap) Len() int { return len(h) }
func (h distHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].state < h[j].state
}
func (h distHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)        { *h = append(*h, x.(closureEntry)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ─────────────────────── pair encoding for determinize ───────────────────────

type labelPair struct {
	in, out Label
}

// encodePairs rewrites each (in, out) arc label pair as a single fresh
// label, turning a transducer into an acceptor that weighted subset
// construction can always handle. Index 0 of the returned table is a
// placeholder: pure-epsilon arcs are gone by the time this runs.
func encodePairs(f *Fst) (*Fst, []labelPair) {
	ids := map[labelPair]Label{}
	table := []labelPair{{Epsilon, Epsilon}}
	enc := New(f.syms)
	for range f.arcs {
		enc.AddState()
	}
	enc.SetStart(f.start)
	copy(enc.finals, f.finals)
	for s := range f.arcs {
		for _, a := range f.arcs[s] {
			p := labelPair{a.In, a.Out}
			id, ok := ids[p]
			if !ok {
				id = Label(len(table))
				table = append(table, p)
				ids[p] = id
			}
			enc.AddArc(StateID(s), Arc{id, id, a.Weight, a.Next})
		}
	}
	return enc, table
}

func decodePairs(f *Fst, table []labelPair, syms *SymbolTable) *Fst {
	dec := New(syms)
	for range f.arcs {
		dec.AddState()
	}
	dec.SetStart(f.start)
	copy(dec.finals, f.finals)
	for s := range f.arcs {
		for _, a := range f.arcs[s] {
			p := table[a.In]
			dec.AddArc(StateID(s), Arc{p.in, p.out, a.Weight, a.Next})
		}
	}
	return dec
}

// ───────────────────────── weighted determinization ─────────────────────────

type weightedState struct {
	state    StateID
	residual float64
}

// determinize runs weighted subset construction over an epsilon-free
// acceptor: subsets carry residual weights, each arc emits the minimum
// weight for its label and pushes the remainder forward. limit > 0 caps
// the number of constructed states.
func determinize(ctx context.Context, f *Fst, limit int) (*Fst, error) {
	res := New(f.syms)
	if f.start == NoState {
		return res, nil
	}

	subsets := map[string]StateID{}
	var queue [][]weightedState

	add := func(sub []weightedState) (StateID, error) {
		key := subsetKey(sub)
		if s, ok := subsets[key]; ok {
			return s, nil
		}
		if limit > 0 && res.NumStates() >= limit {
			return NoState, fmt.Errorf("%w (limit %d)", ErrStateLimit, limit)
		}
		s := res.AddState()
		subsets[key] = s
		queue = append(queue, sub)
		return s, nil
	}

	start, err := add([]weightedState{{f.start, 0}})
	if err != nil {
		return nil, err
	}
	res.SetStart(start)

	for done := 0; done < len(queue); done++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sub := queue[done]
		cur := subsets[subsetKey(sub)]

		final := math.Inf(1)
		cands := map[Label][]weightedState{}
		var labels []Label
		for _, ws := range sub {
			if w := ws.residual + f.finals[ws.state]; w < final {
				final = w
			}
			for _, a := range f.arcs[ws.state] {
				if _, ok := cands[a.In]; !ok {
					labels = append(labels, a.In)
				}
				cands[a.In] = append(cands[a.In], weightedState{a.Next, ws.residual + a.Weight})
			}
		}
		if !math.IsInf(final, 1) {
			res.SetFinal(cur, final)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		for _, l := range labels {
			group := cands[l]
			arcW := math.Inf(1)
			byState := map[StateID]float64{}
			for _, ws := range group {
				if ws.residual < arcW {
					arcW = ws.residual
				}
				if d, ok := byState[ws.state]; !ok || ws.residual < d {
					byState[ws.state] = ws.residual
				}
			}
			next := make([]weightedState, 0, len(byState))
			for st, d := range byState {
				next = append(next, weightedState{st, d - arcW})
			}
			sort.Slice(next, func(i, j int) bool { return next[i].state < next[j].state })
			ns, err := add(next)
			if err != nil {
				return nil, err
			}
			res.AddArc(cur, Arc{l, l, arcW, ns})
		}
	}
	return res, nil
}

func subsetKey(sub []weightedState) string {
	buf := make([]byte, 0, len(sub)*12)
	for _, ws := range sub {
		buf = strconv.AppendInt(buf, int64(ws.state), 10)
		buf = append(buf, ':')
		buf = strconv.AppendFloat(buf, ws.residual, 'b', -1, 64)
		buf = append(buf, ';')
	}
	return string(buf)
}

// ──────────────────────────────── minimization ───────────────────────────────

// minimize merges states of a deterministic machine whose outgoing behavior
// is identical: same final weight and, per label, same arc weight into the
// same equivalence class. Partition refinement runs until stable. Weights
// are not pushed, so the result is minimal up to weight distribution, which
// keeps the weighted language bit-for-bit intact.
func minimize(f *Fst) *Fst {
	n := len(f.arcs)
	if n == 0 || f.start == NoState {
		return f.Copy()
	}

	class := make([]int, n)
	classKeys := map[string]int{}
	for s := 0; s < n; s++ {
		k := strconv.FormatFloat(f.finals[s], 'b', -1, 64)
		id, ok := classKeys[k]
		if !ok {
			id = len(classKeys)
			classKeys[k] = id
		}
		class[s] = id
	}
	numClasses := len(classKeys)

	for {
		next := make([]int, n)
		sigKeys := map[string]int{}
		for s := 0; s < n; s++ {
			buf := make([]byte, 0, 16+len(f.arcs[s])*16)
			buf = strconv.AppendInt(buf, int64(class[s]), 10)
			for _, a := range f.arcs[s] {
				buf = append(buf, '|')
				buf = strconv.AppendInt(buf, int64(a.In), 10)
				buf = append(buf, ',')
				buf = strconv.AppendFloat(buf, a.Weight, 'b', -1, 64)
				buf = append(buf, ',')
				buf = strconv.AppendInt(buf, int64(class[a.Next]), 10)
			}
			k := string(buf)
			id, ok := sigKeys[k]
			if !ok {
				id = len(sigKeys)
				sigKeys[k] = id
			}
			next[s] = id
		}
		if len(sigKeys) == numClasses {
			break
		}
		class = next
		numClasses = len(sigKeys)
	}

	res := New(f.syms)
	rep := make([]StateID, numClasses)
	for i := range rep {
		rep[i] = NoState
	}
	remap := make([]StateID, numClasses)
	for s := 0; s < n; s++ {
		c := class[s]
		if rep[c] == NoState {
			rep[c] = StateID(s)
			remap[c] = res.AddState()
		}
	}
	res.SetStart(remap[class[f.start]])
	for c := 0; c < numClasses; c++ {
		src := rep[c]
		res.finals[remap[c]] = f.finals[src]
		for _, a := range f.arcs[src] {
			res.AddArc(remap[c], Arc{a.In, a.Out, a.Weight, remap[class[a.Next]]})
		}
	}
	return res
}
