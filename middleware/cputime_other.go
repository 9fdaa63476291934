//go:build !unix

package middleware

import "time"

// cpuTime is not available on this platform; timing lines report 0 CPU.
func cpuTime() time.Duration { return 0 }
