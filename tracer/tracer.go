// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package tracer buffers diagnostic messages so a failed decode can be
// replayed after the fact.
package tracer

import (
	"fmt"
)

var traceMessages []string

// Log appends a message to the trace buffer.
func Log(msg string) {
	traceMessages = append(traceMessages, msg)
}

// Flush prints the accumulated trace buffer and resets it.
func Flush() {
	for _, msg := range traceMessages {
		fmt.Println(msg)
	}
	// reset so the next run starts fresh
	traceMessages = nil
}
