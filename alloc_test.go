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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func TestNextFATWalksInlineDIFAT(t *testing.T) {
	c := openFixture(t, DefaultOptions())

	next, err := c.NextFAT(0) // directory sector
	require.NoError(t, err)
	require.Equal(t, endOfChain, next)

	next, err = c.NextFAT(2) // root's mini-stream data sector
	require.NoError(t, err)
	require.Equal(t, endOfChain, next)
}

func TestNextMiniFATFirstSector(t *testing.T) {
	c := openFixture(t, DefaultOptions())

	next, err := c.NextMiniFAT(0)
	require.NoError(t, err)
	require.Equal(t, endOfChain, next)
}

func TestSectorOffsetAccountsForHeader(t *testing.T) {
	c := openFixture(t, DefaultOptions())
	require.Equal(t, int64(headerLen), c.sectorOffset(0))
	require.Equal(t, int64(headerLen+fixtureSectorSize), c.sectorOffset(1))
}

func TestMiniSectorOffsetHasNoHeader(t *testing.T) {
	c := openFixture(t, DefaultOptions())
	require.Equal(t, int64(0), c.miniSectorOffset(0))
	require.Equal(t, int64(64), c.miniSectorOffset(1))
}

// buildMiniFATMultiSectorFixture builds a fixture whose mini-FAT chain
// spans two sectors, to regression-test the corrected nextMiniFAT loop
// condition from spec.md's Open Question: the mini-FAT sector covering
// a given mini-sector index is reached by walking the FAT chain forward
// index/entriesPerSector times from minifatSectorStart, not by any
// arithmetic shortcut assuming the mini-FAT sectors are contiguous.
func buildMiniFATMultiSectorFixture() []byte {
	const sectors = 4
	buf := make([]byte, headerLen+sectors*fixtureSectorSize)

	binary.BigEndian.PutUint64(buf[0:8], signature)
	binary.LittleEndian.PutUint16(buf[24:26], 0x003E)
	binary.LittleEndian.PutUint16(buf[26:28], 3)
	binary.LittleEndian.PutUint16(buf[28:30], byteOrderMark)
	binary.LittleEndian.PutUint16(buf[30:32], 0x0009)
	binary.LittleEndian.PutUint16(buf[32:34], uint16(miniSectorShift))
	binary.LittleEndian.PutUint32(buf[40:44], 0)
	binary.LittleEndian.PutUint32(buf[44:48], 1) // fat sector count
	binary.LittleEndian.PutUint32(buf[48:52], 0) // directory sector start
	binary.LittleEndian.PutUint32(buf[56:60], uint32(cutoffSize))
	binary.LittleEndian.PutUint32(buf[60:64], 2) // minifat sector start
	binary.LittleEndian.PutUint32(buf[64:68], 2) // minifat sector count
	binary.LittleEndian.PutUint32(buf[68:72], endOfChain)
	binary.LittleEndian.PutUint32(buf[72:76], 0)
	for i := 0; i < numInitialDifats; i++ {
		off := 76 + i*4
		if i == 0 {
			binary.LittleEndian.PutUint32(buf[off:off+4], 1) // FAT sector is physical sector 1
		} else {
			binary.LittleEndian.PutUint32(buf[off:off+4], noStream)
		}
	}

	sector := func(n int) []byte {
		start := headerLen + n*fixtureSectorSize
		return buf[start : start+fixtureSectorSize]
	}

	// Sector 0: directory, just the root entry.
	dir := sector(0)
	putDirectoryEntry(dir, 0, "Root Entry", typeRoot, colorBlack, noStream, noStream, noStream, endOfChain, 0)

	// Sector 1: FAT. Chains sector 2 (first mini-FAT sector) to sector 3
	// (second mini-FAT sector), and terminates both the directory and
	// the second mini-FAT sector.
	fat := sector(1)
	binary.LittleEndian.PutUint32(fat[0:4], endOfChain) // sector 0: directory
	binary.LittleEndian.PutUint32(fat[4:8], fatSect)     // sector 1: FAT
	binary.LittleEndian.PutUint32(fat[8:12], 3)          // sector 2: mini-FAT, chains to sector 3
	binary.LittleEndian.PutUint32(fat[12:16], endOfChain)
	for i := 4; i < fixtureSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:i*4+4], noStream)
	}

	// Sector 2: first mini-FAT sector, covering mini-sector indices
	// [0, 128). Left as all-NOSTREAM: nothing in this fixture uses them.
	minifatA := sector(2)
	for i := 0; i < fixtureSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(minifatA[i*4:i*4+4], noStream)
	}

	// Sector 3: second mini-FAT sector, covering mini-sector indices
	// [128, 256). Index 128's slot (the sector's first 4 bytes) holds a
	// distinguishable sentinel value rather than ENDOFCHAIN or NOSTREAM,
	// so the test can confirm nextMiniFAT actually reads from this
	// sector and not from sector 2.
	minifatB := sector(3)
	binary.LittleEndian.PutUint32(minifatB[0:4], 0xABCDEF01)
	for i := 1; i < fixtureSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(minifatB[i*4:i*4+4], noStream)
	}

	return buf
}

func TestNextMiniFATMultiSector(t *testing.T) {
	rws := bytesextra.NewReadWriteSeeker(buildMiniFATMultiSectorFixture())
	c, err := New(rws, Options{MinimumSeverity: SeverityError, Lazy: true})
	require.NoError(t, err)

	entriesPerSector := c.entriesPerSector()
	require.Equal(t, uint32(128), entriesPerSector)

	next, err := c.NextMiniFAT(entriesPerSector) // index 128: first slot of the second mini-FAT sector
	require.NoError(t, err)
	require.Equal(t, uint32(0xABCDEF01), next)
}
