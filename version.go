// Copyright ©2019 The Gonum Authors. All rights reserved.
// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnops

import (
	"fmt"
	"runtime/debug"
)

const root = "github.com/LynnColeArt/nnops"

// Version returns the module version and checksum of nnops as recorded in
// the running binary's build information, whether nnops is the main module
// or a dependency. Both are empty when the binary was built without module
// support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	if b.Main.Path == root {
		return b.Main.Version, b.Main.Sum
	}
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if r := m.Replace; r != nil {
			switch {
			case r.Version != "" && r.Path != "":
				return fmt.Sprintf("%s=>%s %s", m.Version, r.Path, r.Version), r.Sum
			case r.Version != "":
				return fmt.Sprintf("%s=>%s", m.Version, r.Version), r.Sum
			case r.Path != "":
				return fmt.Sprintf("%s=>%s", m.Version, r.Path), r.Sum
			default:
				return m.Version + "*", m.Sum + "*"
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
