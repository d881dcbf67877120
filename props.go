package arbor

// Props is a property bag: an insertion-ordered mapping from property name to
// value. Overwriting a key keeps its original position, so merging bags
// behaves like an object spread. The zero value is an empty bag ready to use.
type Props struct {
	keys   []string
	values map[string]any
}

// NewProps builds a bag from alternating key/value pairs.
// Panics if kv has odd length or a key is not a string.
func NewProps(kv ...any) Props {
	if len(kv)%2 != 0 {
		panic("arbor: NewProps needs key/value pairs")
	}
	var p Props
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("arbor: NewProps key must be a string")
		}
		p.Set(k, kv[i+1])
	}
	return p
}

// Len returns the number of keys.
func (p Props) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order. The returned slice MUST NOT be
// mutated by the caller.
func (p Props) Keys() []string {
	return p.keys
}

// Get returns the value stored under key.
func (p Props) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (p Props) Value(key string) any {
	return p.values[key]
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Set stores v under key, appending key if it is new.
func (p *Props) Set(key string, v any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Delete removes key. No-op if key is absent.
func (p *Props) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			return
		}
	}
}

// Last returns the most recently added key and its value.
func (p Props) Last() (string, any, bool) {
	if len(p.keys) == 0 {
		return "", nil, false
	}
	k := p.keys[len(p.keys)-1]
	return k, p.values[k], true
}

// Clone returns a shallow copy that shares no storage with p.
func (p Props) Clone() Props {
	c := Props{keys: make([]string, len(p.keys)), values: make(map[string]any, len(p.values))}
	copy(c.keys, p.keys)
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Merge returns a new bag holding the keys of every source. Later sources win
// key by key; the merge is shallow.
func Merge(sources ...Props) Props {
	var out Props
	for _, src := range sources {
		for _, k := range src.keys {
			out.Set(k, src.values[k])
		}
	}
	return out
}

// Map returns the bag as a plain map. Order is lost.
func (p Props) Map() map[string]any {
	m := make(map[string]any, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}
	return m
}
