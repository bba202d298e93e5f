// Package config loads the configuration of the datastar command.
//
// The configuration lives in datastar.json, datastar.yaml, datastar.yml or
// datastar.toml, searched for from the working directory upward. Values
// missing from the file keep their defaults, and DATASTAR_ADDR overrides
// the listen address.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":8080",
//	  "log": {"level": "debug", "format": "json"},
//	  "sse": {"heartbeat": "15s", "maxBodyBytes": 1048576},
//	  "metrics": {"enabled": true, "path": "/metrics", "namespace": "datastar"},
//	  "tracing": {"enabled": true, "tracerName": "datastar"},
//	  "examples": {"feedInterval": "100ms", "feedEvents": 10, "helloDelay": "100ms", "watch": ["web"]}
//	}
//
// # Usage
//
//	cfg, err := config.Discover(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
