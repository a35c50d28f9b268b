package analysis

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ianlancetaylor/demangle"

	"armdis/internal/elfx"
)

// demangleCache is shared by every Symbolizer; listings of the same image
// ask for the same names over and over.
type demangleCache struct {
	mu    sync.RWMutex
	names map[string]string
	hits  atomic.Int64
}

var cache = &demangleCache{names: make(map[string]string)}

// CachedDemangle demangles C++ and Rust names, returning the input
// unchanged when it is not mangled.
func CachedDemangle(mangled string) string {
	cache.mu.RLock()
	if d, ok := cache.names[mangled]; ok {
		cache.mu.RUnlock()
		cache.hits.Add(1)
		return d
	}
	cache.mu.RUnlock()

	d := demangle.Filter(mangled, demangle.NoClones)

	cache.mu.Lock()
	cache.names[mangled] = d
	cache.mu.Unlock()
	return d
}

// DemangleCacheStats returns the number of cached names and cache hits.
func DemangleCacheStats() (names, hits int) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.names), int(cache.hits.Load())
}

// Symbolizer names addresses for listings.
type Symbolizer struct {
	names map[uint32]string
	addrs []uint32 // sorted keys of names
}

// NewSymbolizer collects names from img: static and dynamic symbols, then
// PLT stubs as "name@plt". A nil img gives an empty Symbolizer.
func NewSymbolizer(img *elfx.Image) *Symbolizer {
	s := &Symbolizer{names: make(map[uint32]string)}
	if img == nil {
		return s
	}
	for _, sym := range img.Dynsyms {
		if sym.Addr != 0 && sym.Name != "" {
			s.names[sym.Addr] = sym.Name
		}
	}
	// Static symbols override dynamic ones.
	for _, sym := range img.Syms {
		if sym.Addr != 0 && sym.Name != "" {
			s.names[sym.Addr] = sym.Name
		}
	}
	for _, rel := range img.PLTRels {
		if rel.PLTAddr != 0 && rel.SymName != "" {
			s.names[rel.PLTAddr] = rel.SymName + "@plt"
		}
	}
	s.reindex()
	return s
}

func (s *Symbolizer) reindex() {
	s.addrs = s.addrs[:0]
	for a := range s.names {
		s.addrs = append(s.addrs, a)
	}
	sort.Slice(s.addrs, func(i, j int) bool { return s.addrs[i] < s.addrs[j] })
}

// Add names addr, replacing any existing name.
func (s *Symbolizer) Add(addr uint32, name string) {
	if _, ok := s.names[addr]; !ok {
		s.names[addr] = name
		s.reindex()
		return
	}
	s.names[addr] = name
}

// Lookup returns the demangled name at exactly addr.
func (s *Symbolizer) Lookup(addr uint32) (string, bool) {
	name, ok := s.names[addr]
	if !ok {
		return "", false
	}
	return CachedDemangle(name), true
}

// Describe names addr as "sym" or "sym+0x10" relative to the closest symbol
// at or below it, or "loc_<addr>" when none precedes it.
func (s *Symbolizer) Describe(addr uint32) string {
	if name, ok := s.Lookup(addr); ok {
		return name
	}
	i := sort.Search(len(s.addrs), func(i int) bool { return s.addrs[i] > addr })
	if i == 0 {
		return Label(addr)
	}
	base := s.addrs[i-1]
	return fmt.Sprintf("%s+0x%x", CachedDemangle(s.names[base]), addr-base)
}

// Len returns the number of named addresses.
func (s *Symbolizer) Len() int { return len(s.names) }

// Label is the synthetic name for an unnamed branch target.
func Label(addr uint32) string {
	return fmt.Sprintf("loc_%x", addr)
}
