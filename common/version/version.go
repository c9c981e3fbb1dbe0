// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version build information, Version is set with -ldflags
package version

import (
	"fmt"
	"runtime"
)

// Version release version
var Version string

// ProgramName name printed by GetVersionInfo
const ProgramName = "contractcore"

// GetVersionInfo version, go version and platform
func GetVersionInfo() string {
	if Version == "" {
		Version = "development build"
	}

	return fmt.Sprintf("%s:\n Version: %s\n Go version: %s\n OS/Arch: %s",
		ProgramName, Version, runtime.Version(),
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
}
