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

// Reserved sector and stream id values (MS-CFB 2.2, 2.1).
const (
	maxRegSID  uint32 = 0xFFFFFFFA
	difatSect  uint32 = 0xFFFFFFFC
	fatSect    uint32 = 0xFFFFFFFD
	endOfChain uint32 = 0xFFFFFFFE
	noStream   uint32 = 0xFFFFFFFF
)

// Fixed header fields.
const (
	signature       uint64 = 0xD0CF11E0A1B11AE1
	byteOrderMark   uint16 = 0xFFFE
	cutoffSize      uint64 = 0x00001000
	miniSectorShift uint16 = 0x0006
	miniSectorSize  uint32 = 1 << miniSectorShift
	dirEntrySize    uint32 = 128
	headerLen       int    = 512

	numInitialDifats = 109
)

// Directory entry object types (MS-CFB 2.6.1).
const (
	typeUnallocated uint8 = 0x00
	typeStorage     uint8 = 0x01
	typeStream      uint8 = 0x02
	typeRoot        uint8 = 0x05
)

// Directory entry colours (MS-CFB 2.6.4).
const (
	colorRed   uint8 = 0x00
	colorBlack uint8 = 0x01
)
