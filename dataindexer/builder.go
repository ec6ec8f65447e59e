package dataindexer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/index"
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

const loadFactor = 0.7

// counter accumulates predicate occurrence counts and outcome order.
type counter struct {
	predCounts map[string]int
	outcomes   []string
	seen       map[string]struct{}
	numEvents  int
}

func newCounter() *counter {
	return &counter{
		predCounts: make(map[string]int),
		seen:       make(map[string]struct{}),
	}
}

func (c *counter) add(ev *event.Event) {
	c.numEvents++
	if _, ok := c.seen[ev.Outcome]; !ok {
		c.seen[ev.Outcome] = struct{}{}
		c.outcomes = append(c.outcomes, ev.Outcome)
	}
	for _, p := range ev.Context {
		c.predCounts[p]++
	}
}

// vocabulary holds the id tables derived from a counter.
type vocabulary struct {
	preds      *index.HashTable[string]
	outcomes   *index.HashTable[string]
	predLabels []string
	predCounts []int
}

func (c *counter) vocabulary(cutoff int) (*vocabulary, error) {
	if c.numEvents == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "no events to index")
	}

	labels := make([]string, 0, len(c.predCounts))
	for p, n := range c.predCounts {
		if n >= cutoff {
			labels = append(labels, p)
		}
	}
	if len(labels) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "no predicate occurs at least %d times", cutoff)
	}
	sort.Strings(labels)

	counts := make([]int, len(labels))
	for i, p := range labels {
		counts[i] = c.predCounts[p]
	}

	preds, err := index.NewStrings(labels, loadFactor)
	if err != nil {
		return nil, err
	}
	outcomes, err := index.NewStrings(c.outcomes, loadFactor)
	if err != nil {
		return nil, err
	}
	return &vocabulary{preds: preds, outcomes: outcomes, predLabels: labels, predCounts: counts}, nil
}

type encoded struct {
	outcome int
	context []int
	values  []float64
	count   int
}

// encoder maps events onto ids and merges duplicates.
type encoder struct {
	vocab   *vocabulary
	events  []*encoded
	byKey   map[string]*encoded
	n       int
	hasReal bool
	key     strings.Builder
}

func newEncoder(v *vocabulary) *encoder {
	return &encoder{vocab: v, byKey: make(map[string]*encoded)}
}

func (e *encoder) add(ev *event.Event) {
	e.n++
	ids := make([]int, 0, len(ev.Context))
	var values []float64
	if ev.Values != nil {
		values = make([]float64, 0, len(ev.Context))
	}
	for i, p := range ev.Context {
		id := e.vocab.preds.Get(p)
		if id < 0 {
			continue
		}
		ids = append(ids, id)
		if values != nil {
			values = append(values, ev.Values[i])
		}
	}
	if values != nil {
		sort.Stable(byID{ids: ids, values: values})
		e.hasReal = true
	} else {
		sort.Ints(ids)
	}

	enc := &encoded{outcome: e.vocab.outcomes.Get(ev.Outcome), context: ids, values: values}
	k := e.keyOf(enc)
	if prev, ok := e.byKey[k]; ok {
		prev.count++
		return
	}
	enc.count = 1
	e.byKey[k] = enc
	e.events = append(e.events, enc)
}

func (e *encoder) keyOf(enc *encoded) string {
	e.key.Reset()
	e.key.WriteString(strconv.Itoa(enc.outcome))
	e.key.WriteByte('|')
	for _, id := range enc.context {
		e.key.WriteString(strconv.Itoa(id))
		e.key.WriteByte(',')
	}
	if enc.values != nil {
		e.key.WriteByte('|')
		for _, v := range enc.values {
			e.key.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			e.key.WriteByte(',')
		}
	}
	return e.key.String()
}

func (e *encoder) result(numEvents int) *Indexed {
	sort.SliceStable(e.events, func(i, j int) bool {
		return compareEncoded(e.events[i], e.events[j]) < 0
	})

	n := len(e.events)
	d := &Indexed{
		Contexts:           make([][]int, n),
		OutcomeList:        make([]int, n),
		NumTimesEventsSeen: make([]int, n),
		PredLabels:         e.vocab.predLabels,
		PredCounts:         e.vocab.predCounts,
		OutcomeLabels:      e.vocab.outcomes.Keys(),
		NumEvents:          numEvents,
	}
	if e.hasReal {
		d.Values = make([][]float64, n)
	}
	for i, enc := range e.events {
		d.Contexts[i] = enc.context
		d.OutcomeList[i] = enc.outcome
		d.NumTimesEventsSeen[i] = enc.count
		if e.hasReal {
			d.Values[i] = enc.values
		}
	}
	return d
}

// compareEncoded orders by outcome, then predicate ids, then length, then
// values.
func compareEncoded(a, b *encoded) int {
	if a.outcome != b.outcome {
		return a.outcome - b.outcome
	}
	n := len(a.context)
	if len(b.context) < n {
		n = len(b.context)
	}
	for i := 0; i < n; i++ {
		if a.context[i] != b.context[i] {
			return a.context[i] - b.context[i]
		}
	}
	if len(a.context) != len(b.context) {
		return len(a.context) - len(b.context)
	}
	switch {
	case a.values == nil && b.values == nil:
		return 0
	case a.values == nil:
		return -1
	case b.values == nil:
		return 1
	}
	for i := range a.values {
		if a.values[i] < b.values[i] {
			return -1
		}
		if a.values[i] > b.values[i] {
			return 1
		}
	}
	return 0
}

type byID struct {
	ids    []int
	values []float64
}

func (s byID) Len() int           { return len(s.ids) }
func (s byID) Less(i, j int) bool { return s.ids[i] < s.ids[j] }
func (s byID) Swap(i, j int) {
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}
