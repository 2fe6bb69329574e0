package model

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Policy controls how a data product's source file is migrated into an
// entry directory on save.
type Policy int

const (
	PolicyCopy Policy = iota
	PolicyMove
	PolicyIgnore
)

// String returns the lower-case name used in index files.
func (p Policy) String() string {
	switch p {
	case PolicyCopy:
		return "copy"
	case PolicyMove:
		return "move"
	case PolicyIgnore:
		return "ignore"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts an index or command-line policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return PolicyCopy, nil
	case "move":
		return PolicyMove, nil
	case "ignore":
		return PolicyIgnore, nil
	}
	return PolicyCopy, fmt.Errorf("unknown policy %q", s)
}

// MarshalText implements encoding.TextMarshaler so policies export as names.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// DataProduct is one file tracked by a log entry.
//
// Filename is an absolute path while the product is unsaved and a bare
// basename once it lives inside an entry directory.
type DataProduct struct {
	Filename         string     `json:"filename" yaml:"filename"`
	OriginalFilename string     `json:"original_filename" yaml:"original_filename"`
	Policy           Policy     `json:"policy" yaml:"policy"`
	Rename           string     `json:"rename,omitempty" yaml:"rename,omitempty"`
	Comment          string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Timestamp        *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Quiet            bool       `json:"quiet,omitempty" yaml:"quiet,omitempty"`
	// FullPath is the entry directory joined with Filename; set on load.
	FullPath string `json:"-" yaml:"-"`
}

// NewDataProduct returns an unsaved product. filename must be an absolute
// path; a bare name is taken to be already saved.
func NewDataProduct(filename string, policy Policy, rename, comment string) *DataProduct {
	return &DataProduct{
		Filename:         filename,
		OriginalFilename: filename,
		Policy:           policy,
		Rename:           rename,
		Comment:          comment,
	}
}

// Saved reports whether the product already lives in an entry directory,
// i.e. its filename carries no directory component.
func (dp *DataProduct) Saved() bool {
	return dp.Filename != "" && !strings.ContainsRune(dp.Filename, os.PathSeparator)
}
