// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ring

// RaceEnabled is true when the race detector is active.
// Used by tests to skip MP/MC stress tests: the handoff stall synchronizes
// prod.tail/cons.tail with producers and consumers that never touch the
// same memory word the race detector is watching, so it reports crossings
// that acquire/release on the cursors actually orders correctly.
const RaceEnabled = true
