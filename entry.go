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
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf16"
)

// dataStream is the minimal capability Entry needs from whatever backs
// its bytes: the raw file Source for full-sector entries, or the root
// entry itself (recursing once) for mini-sector entries.
type dataStream interface {
	io.Reader
	io.Seeker
	Tell() int64
}

// Entry is a single 128-byte directory record together with the
// seekable stream view over its data. The same type serves stream,
// storage and root entries; the only behavioural difference is whether
// reads are dispatched over full sectors (the FAT) or mini-sectors (the
// mini-FAT), decided once at construction time from the entry's size.
type Entry struct {
	id        uint32
	container *Container

	name  string
	typ   uint8
	color uint8

	leftSiblingID  uint32
	rightSiblingID uint32
	childID        uint32

	clsid     GUID
	stateBits uint32

	creationTime time.Time
	hasCreation  bool
	modifiedTime time.Time
	hasModified  bool

	sectorStart uint32
	size        uint64

	isMini     bool
	nextSector func(current uint32) (uint32, error)

	position         int64
	sectorNumber     uint32
	positionInSector int64
	sourceOffset     int64
}

type directoryRecord struct {
	RawName        [32]uint16
	NameLength     uint16
	Type           uint8
	Color          uint8
	LeftSiblingID  uint32
	RightSiblingID uint32
	ChildID        uint32
	CLSID          [16]byte
	StateBits      uint32
	CreationTime   uint64
	ModifiedTime   uint64
	SectorStart    uint32
	Size           uint64
}

func parseDirectoryRecord(buf []byte) directoryRecord {
	var rec directoryRecord
	for i := 0; i < 32; i++ {
		rec.RawName[i] = binary.LittleEndian.Uint16(buf[i*2 : i*2+2])
	}
	rec.NameLength = binary.LittleEndian.Uint16(buf[64:66])
	rec.Type = buf[66]
	rec.Color = buf[67]
	rec.LeftSiblingID = binary.LittleEndian.Uint32(buf[68:72])
	rec.RightSiblingID = binary.LittleEndian.Uint32(buf[72:76])
	rec.ChildID = binary.LittleEndian.Uint32(buf[76:80])
	copy(rec.CLSID[:], buf[80:96])
	rec.StateBits = binary.LittleEndian.Uint32(buf[96:100])
	rec.CreationTime = binary.LittleEndian.Uint64(buf[100:108])
	rec.ModifiedTime = binary.LittleEndian.Uint64(buf[108:116])
	rec.SectorStart = binary.LittleEndian.Uint32(buf[116:120])
	rec.Size = binary.LittleEndian.Uint64(buf[120:128])
	return rec
}

func decodeEntryName(raw [32]uint16, nameLength uint16) (string, error) {
	if nameLength == 0 {
		return "", nil
	}
	if nameLength < 2 || nameLength > 64 || nameLength%2 != 0 {
		return "", fmt.Errorf("invalid name length %d", nameLength)
	}
	n := int(nameLength/2) - 1
	if n <= 0 {
		return "", nil
	}
	return string(utf16.Decode(raw[:n])), nil
}

// normalizeSiblingID folds any reserved-but-not-NOSTREAM id onto
// NOSTREAM, matching the tolerance the defect policy grants malformed
// sibling/child pointers.
func normalizeSiblingID(id uint32) uint32 {
	if id > maxRegSID && id < noStream {
		return noStream
	}
	return id
}

// newEntry parses the 128-byte directory record at position and builds
// the Entry that reads its data stream, applying the defect policy to
// every validated field.
func newEntry(id uint32, c *Container, position int64) (*Entry, error) {
	if _, err := c.src.Seek(position, io.SeekStart); err != nil {
		return nil, c.reporter.Fatal("truncated directory entry %d: %v", id, err)
	}

	buf := make([]byte, dirEntrySize)
	if _, err := io.ReadFull(c.src, buf); err != nil {
		return nil, c.reporter.Fatal("truncated directory entry %d: %v", id, err)
	}

	rec := parseDirectoryRecord(buf)
	e := &Entry{id: id, container: c}

	name, err := decodeEntryName(rec.RawName, rec.NameLength)
	if err != nil {
		if rerr := c.reporter.Error("entry %d: bad name length: %v", id, err); rerr != nil {
			return nil, rerr
		}
	} else if strings.ContainsAny(name, `/\:!`) {
		if rerr := c.reporter.Warning("entry %d: illegal characters in name %q", id, name); rerr != nil {
			return nil, rerr
		}
	}
	e.name = name

	e.typ = rec.Type
	switch e.typ {
	case typeUnallocated:
		if rerr := c.reporter.Error("entry %d: unallocated", id); rerr != nil {
			return nil, rerr
		}
	case typeStorage, typeStream, typeRoot:
	default:
		if rerr := c.reporter.Error("entry %d: invalid type %#x", id, e.typ); rerr != nil {
			return nil, rerr
		}
	}

	e.color = rec.Color
	if e.color != colorRed && e.color != colorBlack {
		if rerr := c.reporter.Warning("entry %d: invalid colour %#x", id, e.color); rerr != nil {
			return nil, rerr
		}
	}

	e.leftSiblingID = normalizeSiblingID(rec.LeftSiblingID)
	if rec.LeftSiblingID != e.leftSiblingID {
		if rerr := c.reporter.Warning("entry %d: invalid left sibling id %#x, normalised to NOSTREAM", id, rec.LeftSiblingID); rerr != nil {
			return nil, rerr
		}
	}
	e.rightSiblingID = normalizeSiblingID(rec.RightSiblingID)
	if rec.RightSiblingID != e.rightSiblingID {
		if rerr := c.reporter.Warning("entry %d: invalid right sibling id %#x, normalised to NOSTREAM", id, rec.RightSiblingID); rerr != nil {
			return nil, rerr
		}
	}
	e.childID = normalizeSiblingID(rec.ChildID)
	if rec.ChildID != e.childID {
		if rerr := c.reporter.Warning("entry %d: invalid child id %#x, normalised to NOSTREAM", id, rec.ChildID); rerr != nil {
			return nil, rerr
		}
	}

	e.clsid = guidFromBytes(rec.CLSID[:])
	e.stateBits = rec.StateBits

	if t, ok := filetimeToTime(rec.CreationTime); ok {
		e.creationTime, e.hasCreation = t, true
	}
	if t, ok := filetimeToTime(rec.ModifiedTime); ok {
		e.modifiedTime, e.hasModified = t, true
	}

	e.sectorStart = rec.SectorStart
	e.size = rec.Size

	if c.header.majorVersion == 3 && e.size > 0x80000000 {
		if rerr := c.reporter.Error("entry %d: size %#x exceeds 0x80000000 for major version 3", id, e.size); rerr != nil {
			return nil, rerr
		}
	}

	e.isMini = e.typ != typeRoot && e.size < c.header.cutoffSize
	if e.isMini {
		e.nextSector = c.nextMiniFAT
	} else {
		e.nextSector = c.nextFAT
	}

	// Capture the shared file cursor's position right after reading this
	// record, before seeking it elsewhere: cross-cursor safety means
	// every entry remembers where its own stream last left the cursor
	// and re-seeks before its next read.
	e.sourceOffset = c.src.Tell()

	if _, err := e.seekInternal(0); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Entry) stream() dataStream {
	if e.isMini {
		return e.container.rootEntry()
	}
	return e.container.src
}

// ID returns the entry's directory id.
func (e *Entry) ID() uint32 { return e.id }

// Name returns the entry's decoded UTF-16LE name.
func (e *Entry) Name() string { return e.name }

// Type returns the raw object type byte (storage, stream or root).
func (e *Entry) Type() uint8 { return e.typ }

// IsStorage reports whether this entry is a storage (directory) object.
func (e *Entry) IsStorage() bool { return e.typ == typeStorage }

// IsStream reports whether this entry is a stream object.
func (e *Entry) IsStream() bool { return e.typ == typeStream }

// IsRoot reports whether this entry is the root storage.
func (e *Entry) IsRoot() bool { return e.typ == typeRoot }

// CLSID returns the entry's associated class identifier.
func (e *Entry) CLSID() GUID { return e.clsid }

// StateBits returns the entry's user-defined state bits.
func (e *Entry) StateBits() uint32 { return e.stateBits }

// CreationTime returns the entry's creation time, if recorded.
func (e *Entry) CreationTime() (time.Time, bool) { return e.creationTime, e.hasCreation }

// ModifiedTime returns the entry's last-modified time, if recorded.
func (e *Entry) ModifiedTime() (time.Time, bool) { return e.modifiedTime, e.hasModified }

// Size returns the stream's logical size in bytes.
func (e *Entry) Size() uint64 { return e.size }

// IsMini reports whether this entry's data is dispatched through the
// mini-FAT (small streams packed into the root entry's mini stream)
// rather than the ordinary FAT.
func (e *Entry) IsMini() bool { return e.isMini }

// SectorSize returns the size, in bytes, of the sectors this entry's
// chain is built from: the mini sector size for mini entries, the
// container's regular sector size otherwise.
func (e *Entry) SectorSize() uint32 {
	if e.isMini {
		return e.container.header.miniSectorSize
	}
	return e.container.header.sectorSize
}

// SectorShift mirrors SectorSize as a shift amount.
func (e *Entry) SectorShift() uint16 {
	if e.isMini {
		return miniSectorShift
	}
	return e.container.header.sectorShift
}

// NextSector exposes the chain-walking function bound to this entry's
// storage class (FAT or mini-FAT), for testing.
func (e *Entry) NextSector(current uint32) (uint32, error) { return e.nextSector(current) }

// Left returns this entry's left sibling in the directory's red-black
// tree, or nil if there is none.
func (e *Entry) Left() (*Entry, error) {
	if e.leftSiblingID == noStream {
		return nil, nil
	}
	return e.container.directory.ByID(e.leftSiblingID)
}

// Right returns this entry's right sibling, or nil if there is none.
func (e *Entry) Right() (*Entry, error) {
	if e.rightSiblingID == noStream {
		return nil, nil
	}
	return e.container.directory.ByID(e.rightSiblingID)
}

// Child returns the root of this storage entry's own red-black tree of
// children, or nil if it has none.
func (e *Entry) Child() (*Entry, error) {
	if e.childID == noStream {
		return nil, nil
	}
	return e.container.directory.ByID(e.childID)
}

// Tell returns the entry's current logical read offset.
func (e *Entry) Tell() int64 { return e.position }

// Seek implements io.Seeker: the offset is relative to this entry's own
// data stream, never the underlying file.
func (e *Entry) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += e.position
	case io.SeekEnd:
		offset = int64(e.size) + offset
	default:
		return 0, fmt.Errorf("cfb: invalid whence %d", whence)
	}
	if offset < 0 {
		return 0, fmt.Errorf("cfb: negative seek offset %d", offset)
	}
	return e.seekInternal(offset)
}

// seekInternal walks the chain to the sector containing offset and
// repositions the shared cursor there, per the bit-exact offset formula:
// full-sector entries land at ((sector+1)<<shift)+in_sector_offset,
// mini-sector entries (which have no preceding header) land at
// (sector<<shift)+in_sector_offset within the root entry's own stream.
func (e *Entry) seekInternal(offset int64) (int64, error) {
	e.position = offset
	e.sectorNumber = e.sectorStart

	sectorSize := int64(e.SectorSize())
	steps := offset / sectorSize
	for i := int64(0); i < steps; i++ {
		if e.sectorNumber == endOfChain {
			break
		}
		next, err := e.nextSector(e.sectorNumber)
		if err != nil {
			return 0, err
		}
		e.sectorNumber = next
	}
	e.positionInSector = offset - steps*sectorSize

	if e.sectorNumber != endOfChain {
		s := e.stream()
		if _, err := s.Seek(e.physicalOffset(), io.SeekStart); err != nil {
			return 0, err
		}
		e.sourceOffset = s.Tell()
	}

	return e.position, nil
}

func (e *Entry) physicalOffset() int64 {
	if e.isMini {
		return e.container.miniSectorOffset(e.sectorNumber) + e.positionInSector
	}
	return e.container.sectorOffset(e.sectorNumber) + e.positionInSector
}

// Read implements io.Reader over this entry's logical data stream,
// transparently walking its sector chain (full or mini) and re-seeking
// the shared underlying cursor to its own last position before every
// read, so interleaved reads from sibling entries never corrupt each
// other.
func (e *Entry) Read(p []byte) (int, error) {
	remaining := int64(e.size) - e.position
	if remaining <= 0 {
		return 0, io.EOF
	}
	want := int64(len(p))
	if want > remaining {
		want = remaining
	}
	if want == 0 {
		return 0, nil
	}

	s := e.stream()
	if _, err := s.Seek(e.sourceOffset, io.SeekStart); err != nil {
		return 0, err
	}

	sectorSize := int64(e.SectorSize())
	var n int64
	for n < want {
		if e.sectorNumber == endOfChain {
			break
		}
		toEnd := sectorSize - e.positionInSector
		toDo := want - n
		if toDo > toEnd {
			toDo = toEnd
		}

		read, err := io.ReadFull(s, p[n:n+toDo])
		n += int64(read)
		e.position += int64(read)
		e.positionInSector += int64(read)
		e.sourceOffset = s.Tell()
		if err != nil {
			return int(n), err
		}
		if int64(read) < toDo {
			break
		}

		if e.positionInSector >= sectorSize {
			next, nerr := e.nextSector(e.sectorNumber)
			if nerr != nil {
				return int(n), nerr
			}
			e.sectorNumber = next
			e.positionInSector = 0
			if e.sectorNumber != endOfChain {
				if _, serr := s.Seek(e.physicalOffset(), io.SeekStart); serr != nil {
					return int(n), serr
				}
				e.sourceOffset = s.Tell()
			}
		}
	}

	if n == 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

func (e *Entry) String() string {
	if e.id == 0 {
		return fmt.Sprintf("<RootEntry of %s>", e.container)
	}
	return fmt.Sprintf("<Entry[%d] %q of %s>", e.id, e.name, e.container)
}
