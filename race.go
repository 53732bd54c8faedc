// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ulfq

// RaceEnabled is true when the race detector is active.
// Tests skip only their concurrent Segmented cases under the detector:
// Segmented publishes slot values with an atomix release store the
// detector may not observe. Linked, Ref and Shared publish through
// go.uber.org/atomic and run under the detector.
const RaceEnabled = true
