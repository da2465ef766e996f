// Command ipgeom is the CLI surface for the IP-geolocation and
// network-diagnostic toolkit: RIR store management, RPSL inspection,
// iterative DNS queries, WHOIS/RDAP/certificate lookups, ping,
// traceroute, password hashing, and the JSON HTTP API server.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errUsage marks a command failure as an argument-validation problem,
// mapped to exit code 2 (spec.md §6); every other error maps to 1.
var errUsage = errors.New("invalid arguments")

// errNotFound marks a lookup that completed without error but found
// nothing; spec.md §6 only requires this be non-zero, so it falls
// through run()'s default case to exit code 1 like any other failure.
var errNotFound = errors.New("not found")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errUsage}, args...)...)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
