// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestGetDefaults(t *testing.T) {
	// Without ldflags injection the defaults apply.
	info := Get()

	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "" {
		t.Errorf("GitCommit = %q, want empty", info.GitCommit)
	}
	if info.BuildTime != "" {
		t.Errorf("BuildTime = %q, want empty", info.BuildTime)
	}
}

func TestGetReflectsInjectedValues(t *testing.T) {
	origVersion, origCommit, origBuild := version, gitCommit, buildTime
	t.Cleanup(func() {
		version, gitCommit, buildTime = origVersion, origCommit, origBuild
	})

	version = "v2.1.0"
	gitCommit = "abc1234"
	buildTime = "2026-08-01T12:00:00Z"

	info := Get()
	if info.Version != "v2.1.0" || info.GitCommit != "abc1234" || info.BuildTime != "2026-08-01T12:00:00Z" {
		t.Errorf("Get() = %+v, want injected values", info)
	}
}
