// Package config loads hello-webserver settings from YAML or JSON files.
//
// Fields missing from the file keep the values from Default, so a file only
// needs to name what it changes:
//
//	server:
//	  addr: 0.0.0.0:7878
//	  sleep_delay: 5s
//	pool:
//	  size: 8
//	admin:
//	  enabled: true
//
// Call Validate before use; ToServerConfig converts the server section into
// a server.Config.
package config
