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

// Package cfb implements a read-only reader for the Microsoft Compound File
// Binary File Format (http://msdn.microsoft.com/en-us/library/dd942138.aspx),
// also known as OLE structured storage.
//
// The format is a self-contained in-file filesystem used by legacy MS Office
// documents (.doc, .xls, .ppt), Outlook .msg files, Windows Installer
// databases and Thumbs.db: a header, one or more sector-chain allocation
// tables (FAT, DIFAT, mini-FAT), and a red-black tree of directory entries
// whose payloads live in full sectors or, for small streams, in a packed
// mini stream.
//
// Example:
//
//	c, err := cfb.Open("test.doc", cfb.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	entry, err := c.ByName("WordDocument")
//	if err != nil {
//		log.Fatal(err)
//	}
//	buf := make([]byte, entry.Size())
//	if _, err := io.ReadFull(entry, buf); err != nil {
//		log.Fatal(err)
//	}
package cfb
