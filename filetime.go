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

import "time"

// filetimeEpochDelta is the number of 100ns ticks between the FILETIME
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDelta = 116444736000000000

// filetimeToTime converts a Windows FILETIME into a UTC time.Time. A zero
// FILETIME means "absent", reported via the second return value, matching
// directory entries whose creation or modified time field is unset.
func filetimeToTime(ft uint64) (time.Time, bool) {
	if ft == 0 {
		return time.Time{}, false
	}
	ticks := int64(ft) - filetimeEpochDelta
	sec := ticks / 10000000
	nsec := (ticks % 10000000) * 100
	return time.Unix(sec, nsec).UTC(), true
}
