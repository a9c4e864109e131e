package entities

import (
	"strings"
)

// AddressSet is an ordered set of lowercased wallet addresses
type AddressSet struct {
	index map[string]struct{}
	order []string
}

// NewAddressSet trims, lowercases and deduplicates addresses, keeping first-seen order
func NewAddressSet(addresses ...string) *AddressSet {
	s := &AddressSet{
		index: make(map[string]struct{}, len(addresses)),
		order: make([]string, 0, len(addresses)),
	}
	for _, addr := range addresses {
		s.Add(addr)
	}
	return s
}

// Add inserts an address, ignoring blanks and duplicates
func (s *AddressSet) Add(addr string) {
	addr = NormalizeAddress(addr)
	if addr == "" {
		return
	}
	if _, ok := s.index[addr]; ok {
		return
	}
	s.index[addr] = struct{}{}
	s.order = append(s.order, addr)
}

// Contains reports whether addr is in the set, ignoring case
func (s *AddressSet) Contains(addr string) bool {
	_, ok := s.index[NormalizeAddress(addr)]
	return ok
}

// Len returns the number of distinct addresses
func (s *AddressSet) Len() int {
	return len(s.order)
}

// Slice returns the addresses in first-seen order
func (s *AddressSet) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// NormalizeAddress trims and lowercases an address
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
