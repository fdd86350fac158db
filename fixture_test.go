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
	"unicode/utf16"
)

const fixtureSectorSize = 512

// encodeEntryName renders name as the fixed 32-uint16 RawName field plus
// its NameLength (byte count including the terminating null wide char),
// matching the MS-CFB directory entry layout.
func encodeEntryName(name string) (raw [32]uint16, length uint16) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		raw[i] = u
	}
	length = uint16((len(units) + 1) * 2)
	return raw, length
}

func putDirectoryEntry(buf []byte, offset int, name string, typ, color byte, left, right, child uint32, sectorStart uint32, size uint64) {
	raw, nameLen := encodeEntryName(name)
	for i, u := range raw {
		binary.LittleEndian.PutUint16(buf[offset+i*2:offset+i*2+2], u)
	}
	binary.LittleEndian.PutUint16(buf[offset+64:offset+66], nameLen)
	buf[offset+66] = typ
	buf[offset+67] = color
	binary.LittleEndian.PutUint32(buf[offset+68:offset+72], left)
	binary.LittleEndian.PutUint32(buf[offset+72:offset+76], right)
	binary.LittleEndian.PutUint32(buf[offset+76:offset+80], child)
	binary.LittleEndian.PutUint32(buf[offset+116:offset+120], sectorStart)
	binary.LittleEndian.PutUint64(buf[offset+120:offset+128], size)
}

// buildFixture assembles a minimal, internally consistent CFB image: a
// root storage whose mini stream (sector 2) holds a single mini-sector,
// one stream entry ("Data", 10 bytes, dispatched through the mini-FAT in
// sector 3), a one-sector FAT (sector 1) and a one-sector directory
// (sector 0).
func buildFixture() []byte {
	const sectors = 4
	buf := make([]byte, headerLen+sectors*fixtureSectorSize)

	// Header.
	binary.BigEndian.PutUint64(buf[0:8], signature)
	binary.LittleEndian.PutUint16(buf[24:26], 0x003E)
	binary.LittleEndian.PutUint16(buf[26:28], 3)
	binary.LittleEndian.PutUint16(buf[28:30], byteOrderMark)
	binary.LittleEndian.PutUint16(buf[30:32], 0x0009)
	binary.LittleEndian.PutUint16(buf[32:34], uint16(miniSectorShift))
	binary.LittleEndian.PutUint32(buf[40:44], 0) // directory sector count, 0 for major v3
	binary.LittleEndian.PutUint32(buf[44:48], 1) // fat sector count
	binary.LittleEndian.PutUint32(buf[48:52], 0) // directory sector start
	binary.LittleEndian.PutUint32(buf[56:60], uint32(cutoffSize))
	binary.LittleEndian.PutUint32(buf[60:64], 3) // minifat sector start
	binary.LittleEndian.PutUint32(buf[64:68], 1) // minifat sector count
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

	// Sector 0: directory.
	dir := sector(0)
	putDirectoryEntry(dir, 0, "Root Entry", typeRoot, colorBlack, noStream, noStream, 1, 2, 64)
	putDirectoryEntry(dir, 128, "Data", typeStream, colorBlack, noStream, noStream, noStream, 0, 10)
	putDirectoryEntry(dir, 256, "", typeUnallocated, colorRed, noStream, noStream, noStream, 0, 0)
	putDirectoryEntry(dir, 384, "", typeUnallocated, colorRed, noStream, noStream, noStream, 0, 0)

	// Sector 1: FAT.
	fat := sector(1)
	binary.LittleEndian.PutUint32(fat[0:4], endOfChain)  // sector 0: directory
	binary.LittleEndian.PutUint32(fat[4:8], fatSect)      // sector 1: FAT
	binary.LittleEndian.PutUint32(fat[8:12], endOfChain)  // sector 2: root mini-stream data
	binary.LittleEndian.PutUint32(fat[12:16], endOfChain) // sector 3: mini-FAT
	for i := 4; i < fixtureSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:i*4+4], noStream)
	}

	// Sector 2: root's mini stream, one mini-sector holding "Data"'s
	// content in its first 10 bytes.
	mini := sector(2)
	copy(mini, []byte("helloworld"))

	// Sector 3: mini-FAT: mini-sector 0 (the only one) ends its chain.
	minifat := sector(3)
	binary.LittleEndian.PutUint32(minifat[0:4], endOfChain)
	for i := 1; i < fixtureSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(minifat[i*4:i*4+4], noStream)
	}

	return buf
}
