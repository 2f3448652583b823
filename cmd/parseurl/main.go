// Command parseurl splits URLs the way PHP's parse_url does, and encodes them
// into the packed form used for storage.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
