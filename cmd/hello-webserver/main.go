// Package main is the entry point for hello-webserver.
package main

import "os"

var (
	version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
