package read_filter

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"ontbc_go/tools/fastx"
)

// LengthMap maps read names to sequence lengths and remembers the order in
// which names were first seen. Setting an existing name replaces its length
// in place.
type LengthMap struct {
	index   map[string]int
	names   []string
	lengths []int
}

func NewLengthMap() *LengthMap {
	return &LengthMap{index: make(map[string]int)}
}

func (m *LengthMap) Set(name string, length int) {
	if i, ok := m.index[name]; ok {
		m.lengths[i] = length
		return
	}
	m.index[name] = len(m.names)
	m.names = append(m.names, name)
	m.lengths = append(m.lengths, length)
}

func (m *LengthMap) Get(name string) (int, bool) {
	i, ok := m.index[name]
	if !ok {
		return 0, false
	}
	return m.lengths[i], true
}

func (m *LengthMap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

func (m *LengthMap) Len() int { return len(m.names) }

// Names returns the names in insertion order.
func (m *LengthMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Lengths returns the lengths in insertion order.
func (m *LengthMap) Lengths() []int {
	return append([]int(nil), m.lengths...)
}

// GetLengths reads every record of a sequence file once and records its length.
func GetLengths(path string) (*LengthMap, error) {
	log.Info("Get sequence length")
	m := NewLengthMap()
	err := fastx.Each(path, func(r *fastx.Record) error {
		m.Set(r.Name, len(r.Sequence))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read lengths: %w", err)
	}
	return m, nil
}
