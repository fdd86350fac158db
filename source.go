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
	"io"

	log "github.com/dsoprea/go-logging"
)

// Source is the random-access capability every component that walks
// sector chains shares: seek/read/tell plus little-endian integer reads
// at arbitrary offsets.
type Source interface {
	io.Reader
	io.Seeker
	Tell() int64
	GetByte(offset int64) (byte, error)
	GetShort(offset int64) (uint16, error)
	GetLong(offset int64) (uint32, error)
}

// fileSource adapts a plain io.ReadSeeker (typically an *os.File, or a
// bytesextra.NewReadWriteSeeker fixture in tests) into a Source.
type fileSource struct {
	rs io.ReadSeeker
}

func newFileSource(rs io.ReadSeeker) *fileSource {
	return &fileSource{rs: rs}
}

func (s *fileSource) Read(p []byte) (int, error) {
	n, err := s.rs.Read(p)
	if err != nil && err != io.EOF {
		return n, log.Wrap(err)
	}
	return n, err
}

func (s *fileSource) Seek(offset int64, whence int) (int64, error) {
	n, err := s.rs.Seek(offset, whence)
	if err != nil {
		return n, log.Wrap(err)
	}
	return n, nil
}

func (s *fileSource) Tell() int64 {
	pos, _ := s.rs.Seek(0, io.SeekCurrent)
	return pos
}

func (s *fileSource) GetByte(offset int64) (byte, error) {
	var buf [1]byte
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(s.rs, buf[:]); err != nil {
		return 0, log.Wrap(err)
	}
	return buf[0], nil
}

func (s *fileSource) GetShort(offset int64) (uint16, error) {
	var buf [2]byte
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(s.rs, buf[:]); err != nil {
		return 0, log.Wrap(err)
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (s *fileSource) GetLong(offset int64) (uint32, error) {
	var buf [4]byte
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(s.rs, buf[:]); err != nil {
		return 0, log.Wrap(err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
