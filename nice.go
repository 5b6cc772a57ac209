package main

import "golang.org/x/sys/unix"

// setNiceness adjusts the scheduling priority of the current process.
// The scan loop competes with desktop workloads, so a small negative
// niceness keeps key latency steady under load.
func setNiceness(n int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, n)
}
