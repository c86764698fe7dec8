// Package config loads settings for the reactive command and devtools.
//
// Configuration lives in reactive.yaml (or reactive.yml, or reactive.toml)
// at the project root. Every field is optional; a missing file yields the
// defaults. Environment variables override the file.
//
// # Configuration File Structure
//
//	dev: true
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  namespace: reactive
//	devtools:
//	  addr: localhost:7070
//	  buffer: 1024
//	  interval: 2s
//	archive:
//	  bucket: traces
//	  prefix: dev/
//	  region: us-east-1
//	  endpoint: http://localhost:9000
//	  path_style: true
//
// # Environment
//
//	REACTIVE_DEV=1              enables development mode
//	REACTIVE_LOG_LEVEL=debug    overrides log.level
//	REACTIVE_DEVTOOLS_ADDR=:0   overrides devtools.addr
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
