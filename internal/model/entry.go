package model

import "time"

// LogEntry is a dated note bundled with the data products it refers to.
type LogEntry struct {
	Timestamp    time.Time      `json:"timestamp" yaml:"timestamp"`
	Title        string         `json:"title" yaml:"title"`
	Comment      string         `json:"comment" yaml:"comment"`
	DataProducts []*DataProduct `json:"dataproducts" yaml:"dataproducts"`
	// Pathname is the backing directory. Empty for a transient entry.
	Pathname string `json:"pathname,omitempty" yaml:"pathname,omitempty"`
}

// NewLogEntry creates a transient entry. Each entry owns a freshly
// allocated product slice.
func NewLogEntry(ts time.Time, title, comment string, dps ...*DataProduct) *LogEntry {
	products := make([]*DataProduct, 0, len(dps))
	products = append(products, dps...)
	return &LogEntry{
		Timestamp:    ts.Truncate(time.Second),
		Title:        title,
		Comment:      comment,
		DataProducts: products,
	}
}

// Transient reports whether the entry has never been saved or loaded.
func (e *LogEntry) Transient() bool {
	return e.Pathname == ""
}

// VisibleProducts returns the products whose policy is not ignore.
func (e *LogEntry) VisibleProducts() []*DataProduct {
	var out []*DataProduct
	for _, dp := range e.DataProducts {
		if dp.Policy != PolicyIgnore {
			out = append(out, dp)
		}
	}
	return out
}
