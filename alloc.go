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

import "fmt"

// sectorOffset returns the physical byte offset of sector sn, accounting
// for the 512-byte header that precedes sector 0.
func (c *Container) sectorOffset(sn uint32) int64 {
	return (int64(sn) + 1) << c.header.sectorShift
}

// miniSectorOffset returns the offset of mini-sector sn within the root
// entry's own stream: the mini stream has no header of its own, it is
// just logical data living inside the root entry.
func (c *Container) miniSectorOffset(sn uint32) int64 {
	return int64(sn) << miniSectorShift
}

func (c *Container) entriesPerSector() uint32 {
	return c.header.sectorSize / 4
}

// nextFAT returns the sector following current in its FAT chain, walking
// the DIFAT (inline header entries, then the DIFAT sector chain) to find
// the FAT sector covering current, then indexing into it.
func (c *Container) nextFAT(current uint32) (uint32, error) {
	entries := c.entriesPerSector()
	block := current / entries

	var fatSector uint32
	if block < numInitialDifats {
		v, err := c.src.GetLong(76 + int64(block)*4)
		if err != nil {
			return 0, err
		}
		fatSector = v
	} else {
		block -= numInitialDifats
		sector := c.header.difatSectorStart
		for block >= entries-1 {
			if sector == endOfChain {
				return 0, fmt.Errorf("cfb: DIFAT chain ended before reaching sector %d", current)
			}
			offset := c.sectorOffset(sector) + int64(c.header.sectorSize) - 4
			next, err := c.src.GetLong(offset)
			if err != nil {
				return 0, err
			}
			block -= entries - 1
			sector = next
		}
		if sector == endOfChain {
			return 0, fmt.Errorf("cfb: DIFAT chain ended before reaching sector %d", current)
		}
		offset := c.sectorOffset(sector) + int64(block)*4
		v, err := c.src.GetLong(offset)
		if err != nil {
			return 0, err
		}
		fatSector = v
	}

	offset := c.sectorOffset(fatSector) + int64(current%entries)*4
	return c.src.GetLong(offset)
}

// nextMiniFAT returns the sector following current in its mini-FAT
// chain. The mini-FAT itself lives in an ordinary sector chain headed at
// minifatSectorStart, so reaching the mini-FAT sector covering current
// means walking nextFAT forward current/entries times from that start -
// the corrected form, rather than assuming the mini-FAT sectors are
// contiguous on disk.
func (c *Container) nextMiniFAT(current uint32) (uint32, error) {
	entries := c.entriesPerSector()
	block := current / entries

	sector := c.header.minifatSectorStart
	for i := uint32(0); i < block; i++ {
		if sector == endOfChain {
			return endOfChain, nil
		}
		next, err := c.nextFAT(sector)
		if err != nil {
			return 0, err
		}
		sector = next
	}
	if sector == endOfChain {
		return endOfChain, nil
	}

	offset := c.sectorOffset(sector) + int64(current%entries)*4
	return c.src.GetLong(offset)
}

// NextFAT exposes the FAT chain-walker, for tests and for callers
// building their own entries outside the directory walk.
func (c *Container) NextFAT(current uint32) (uint32, error) { return c.nextFAT(current) }

// NextMiniFAT exposes the mini-FAT chain-walker.
func (c *Container) NextMiniFAT(current uint32) (uint32, error) { return c.nextMiniFAT(current) }
