// Command admin is the operator CLI: account management and static uploads.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd(openEnv).Execute(); err != nil {
		os.Exit(1)
	}
}
