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
)

// GUID is a 16-byte class identifier as stored in a CFB header or
// directory entry, in Windows' mixed-endian layout.
type GUID [16]byte

// GUIDNull is the distinguished all-zero CLSID_NULL.
var GUIDNull GUID

// IsNull reports whether g is CLSID_NULL.
func (g GUID) IsNull() bool { return g == GUIDNull }

// Equal reports byte-wise equality with another GUID.
func (g GUID) Equal(o GUID) bool { return g == o }

// String renders g in the braced Microsoft representation,
// {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}.
func (g GUID) String() string {
	return fmt.Sprintf("{%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x}",
		binary.LittleEndian.Uint32(g[0:4]),
		binary.LittleEndian.Uint16(g[4:6]),
		binary.LittleEndian.Uint16(g[6:8]),
		g[8], g[9], g[10], g[11], g[12], g[13], g[14], g[15])
}

func guidFromBytes(b []byte) GUID {
	var g GUID
	copy(g[:], b)
	return g
}
