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

// LookupError is returned by ByID, ByName and Get when no entry matches
// the given key.
type LookupError struct {
	Key interface{}
}

func (e *LookupError) Error() string {
	if s, ok := e.Key.(string); ok {
		return fmt.Sprintf("cfb: no such entry name: %q", s)
	}
	return fmt.Sprintf("cfb: no such entry id: %v", e.Key)
}

func notFound(key interface{}) error { return &LookupError{Key: key} }

// KeyTypeError is returned by Get when called with a key that is neither
// an integer entry id nor a string name.
type KeyTypeError struct {
	Key interface{}
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("cfb: invalid key type %T", e.Key)
}
