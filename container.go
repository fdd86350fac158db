// Copyright 2013 Richard Lehane. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfb

import (
	"fmt"
	"io"
	"os"
)

// Options configures how a Container is opened.
type Options struct {
	// MinimumSeverity is the lowest defect severity that aborts parsing;
	// anything less severe is only sent to Sink. The zero value,
	// SeverityWarning, is the strictest setting and raises on every
	// defect, Warning included; callers wanting the tolerant, production
	// default should use DefaultOptions or set this to SeverityError
	// explicitly, and SeverityFatal is the most tolerant of all, raising
	// on nothing but Fatal defects.
	MinimumSeverity Severity

	// Lazy skips the eager directory walk at open time. Entries are
	// still materialised on demand by id or by name either way.
	Lazy bool

	// Sink receives defects below MinimumSeverity. A nil Sink uses
	// DefaultDefectSink.
	Sink DefectSink
}

// DefaultOptions returns the recommended defaults: minimum severity
// Error (tolerant of metadata quirks, strict on genuine corruption),
// eager directory read, default log-backed sink.
func DefaultOptions() Options {
	return Options{MinimumSeverity: SeverityError}
}

// Container is the top-level handle on an opened CFB file: its header,
// its directory, and the allocation engine entries use to resolve their
// sector chains.
type Container struct {
	path   string
	closer io.Closer

	src      Source
	reporter *Reporter
	header   *header

	directory *Directory
}

// Open opens the named file as a CFB container.
func Open(name string, opts Options) (*Container, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	c, err := New(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.path = name
	c.closer = f
	return c, nil
}

// New builds a Container over an already-open seekable source, such as
// an *os.File or a bytesextra.NewReadWriteSeeker fixture in tests.
func New(rs io.ReadSeeker, opts Options) (*Container, error) {
	c := &Container{
		src:      newFileSource(rs),
		reporter: NewReporter(opts.MinimumSeverity, opts.Sink),
	}

	h, err := parseHeader(c.src, c.reporter)
	if err != nil {
		return nil, err
	}
	c.header = h
	c.directory = newDirectory(c)

	if _, err := c.directory.ByID(0); err != nil {
		return nil, err
	}
	if c.directory.entries[0].typ != typeRoot {
		if err := c.reporter.Error("entry 0 is not the root storage"); err != nil {
			return nil, err
		}
	}

	if !opts.Lazy {
		if err := c.directory.readAll(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Root returns the root directory entry (id 0).
func (c *Container) Root() *Entry { return c.rootEntry() }

func (c *Container) rootEntry() *Entry {
	e, _ := c.directory.ByID(0)
	return e
}

// ByID returns the entry with the given numeric id.
func (c *Container) ByID(id uint32) (*Entry, error) { return c.directory.ByID(id) }

// ByName returns the entry with the given name, walking the on-disk
// red-black tree.
func (c *Container) ByName(name string) (*Entry, error) { return c.directory.byName(name) }

// Get is a dynamically-typed lookup: an integer key routes to ByID
// (negative values always miss), a string key to ByName, anything else
// is a *KeyTypeError.
func (c *Container) Get(key interface{}) (*Entry, error) {
	switch k := key.(type) {
	case string:
		return c.ByName(k)
	case int:
		if k < 0 {
			return nil, notFound(k)
		}
		return c.ByID(uint32(k))
	case int64:
		if k < 0 {
			return nil, notFound(k)
		}
		return c.ByID(uint32(k))
	case int32:
		return c.Get(int64(k))
	case int16:
		return c.Get(int64(k))
	case int8:
		return c.Get(int64(k))
	case uint:
		return c.Get(uint64(k))
	case uint16:
		return c.ByID(uint32(k))
	case uint8:
		return c.ByID(uint32(k))
	case uint32:
		return c.ByID(k)
	case uint64:
		return c.ByID(uint32(k))
	default:
		return nil, &KeyTypeError{Key: key}
	}
}

// Len returns the number of directory entries materialised so far (all
// of them, once opened eagerly).
func (c *Container) Len() int { return c.directory.len() }

// MajorVersion and MinorVersion return the header's version pair.
func (c *Container) MajorVersion() uint16 { major, _ := c.header.version(); return major }
func (c *Container) MinorVersion() uint16 { _, minor := c.header.version(); return minor }

// CLSID returns the header's reserved class identifier field.
func (c *Container) CLSID() GUID { return c.header.clsid }

// SectorSize returns the container's regular sector size in bytes.
func (c *Container) SectorSize() uint32 { return c.header.sectorSize }

// MiniSectorSize returns the container's mini sector size in bytes.
func (c *Container) MiniSectorSize() uint32 { return c.header.miniSectorSize }

// Close releases the underlying file, if Container opened one itself.
func (c *Container) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func (c *Container) String() string {
	if c.path == "" {
		return "<Container>"
	}
	return fmt.Sprintf("<Container %q>", c.path)
}
