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

import "unicode/utf16"

// Directory is the entry id -> Entry mapping, materialised lazily from
// the directory sector chain and cached both by id and by name.
type Directory struct {
	container *Container
	entries   map[uint32]*Entry
	names     map[string]uint32
}

func newDirectory(c *Container) *Directory {
	return &Directory{
		container: c,
		entries:   make(map[uint32]*Entry),
		names:     make(map[string]uint32),
	}
}

func (d *Directory) len() int { return len(d.entries) }

// ByID returns the entry with the given id, reading it from the
// directory sector chain the first time it's requested.
func (d *Directory) ByID(id uint32) (*Entry, error) {
	if e, ok := d.entries[id]; ok {
		return e, nil
	}

	c := d.container
	entriesPerSector := c.header.sectorSize / dirEntrySize
	sector := c.header.directorySectorStart

	current := uint32(0)
	for (current+1)*entriesPerSector <= id {
		if sector == endOfChain {
			return nil, notFound(id)
		}
		next, err := c.nextFAT(sector)
		if err != nil {
			return nil, notFound(id)
		}
		sector = next
		current++
	}
	if sector == endOfChain {
		return nil, notFound(id)
	}

	position := c.sectorOffset(sector) + int64(id-current*entriesPerSector)*int64(dirEntrySize)

	e, err := newEntry(id, c, position)
	if err != nil {
		return nil, notFound(id)
	}

	d.entries[id] = e
	d.names[e.name] = id

	return e, nil
}

// readAll performs the eager depth-first traversal of every entry
// reachable from the root, following left/right siblings and recursing
// into a storage entry's own child tree.
func (d *Directory) readAll() error {
	root, err := d.ByID(0)
	if err != nil {
		return err
	}

	var walk func(id uint32) error
	walk = func(id uint32) error {
		if id == noStream {
			return nil
		}
		e, err := d.ByID(id)
		if err != nil {
			return nil
		}
		if err := walk(e.leftSiblingID); err != nil {
			return err
		}
		if err := walk(e.rightSiblingID); err != nil {
			return err
		}
		if e.typ == typeStorage {
			if err := walk(e.childID); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(root.childID)
}

// byName walks the on-disk red-black tree rooted at the root entry's
// child, comparing names by the tree's own order: shorter names (in
// UTF-16 code units) first, then code-point lexicographic.
func (d *Directory) byName(name string) (*Entry, error) {
	if id, ok := d.names[name]; ok {
		return d.ByID(id)
	}

	root, err := d.ByID(0)
	if err != nil {
		return nil, err
	}
	if root.name == name {
		return root, nil
	}

	current := root.childID
	for current != noStream {
		e, err := d.ByID(current)
		if err != nil {
			return nil, notFound(name)
		}
		switch c := compareNames(name, e.name); {
		case c < 0:
			current = e.leftSiblingID
		case c > 0:
			current = e.rightSiblingID
		default:
			return e, nil
		}
	}

	return nil, notFound(name)
}

func utf16Len(s string) int { return len(utf16.Encode([]rune(s))) }

// compareNames implements the directory tree's key order.
func compareNames(a, b string) int {
	if la, lb := utf16Len(a), utf16Len(b); la != lb {
		return la - lb
	}
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] != rb[i] {
			return int(ra[i]) - int(rb[i])
		}
	}
	return len(ra) - len(rb)
}
