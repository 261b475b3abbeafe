package motif

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Source is a read-only mapping from pool key to candidate motif names. An
// absent key yields an empty list.
type Source interface {
	Get(k Key) []string
}

// Pools is the in-memory Source loaded once per process. Callers must not
// mutate it after loading.
type Pools map[Key][]string

var _ Source = Pools(nil)

func (p Pools) Get(k Key) []string {
	return p[k]
}

// Keys returns the pool keys in sorted order.
func (p Pools) Keys() []Key {
	keys := make([]Key, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the total number of motifs across all pools.
func (p Pools) Len() int {
	n := 0
	for _, list := range p {
		n += len(list)
	}
	return n
}

// Decode reads the pool JSON object (pool key -> array of names).
func Decode(r io.Reader) (Pools, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding motif pools: %w", err)
	}
	pools := make(Pools, len(raw))
	for k, list := range raw {
		pools[Key(k)] = list
	}
	return pools, nil
}

// LoadFile reads pools from a JSON file.
func LoadFile(path string) (Pools, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading motif pools: %w", err)
	}
	defer f.Close()

	pools, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading motif pools %s: %w", path, err)
	}
	return pools, nil
}

// Encode writes pools as indented JSON with sorted keys.
func (p Pools) Encode(w io.Writer) error {
	raw := make(map[string][]string, len(p))
	for k, list := range p {
		raw[string(k)] = list
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}
