package mgetlib

import "net/http"

// Header is a single key/value pair sent on outgoing HTTP/HTTPS requests.
type Header struct {
	Key   string
	Value string
}

// Set applies the header to h, overwriting any existing value for Key.
func (h Header) Set(header http.Header) {
	header.Set(h.Key, h.Value)
}

// Headers is an ordered list of request headers.
type Headers []Header

// Get returns the index of the header with the given key.
func (h Headers) Get(key string) (index int, have bool) {
	for i, x := range h {
		if x.Key == key {
			return i, true
		}
	}
	return 0, false
}

// InitOrUpdate sets key to value only if key is not already present.
func (h *Headers) InitOrUpdate(key, value string) {
	if _, ok := h.Get(key); ok {
		return
	}
	*h = append(*h, Header{key, value})
}

// Set applies every header in h to header, in order.
func (h Headers) Set(header http.Header) {
	for _, x := range h {
		x.Set(header)
	}
}
