// Package config provides configuration parsing for the reflow tools.
//
// The configuration is stored in reflow.json, reflow.yaml (or .yml) or
// reflow.toml in the working directory; the format is chosen by extension.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "log": {"level": "info", "format": "text"},
//	  "scheduler": {"freshDeps": false, "chainWarn": 100},
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "readBufferSize": 1024,
//	    "writeBufferSize": 1024
//	  },
//	  "metrics": {"enabled": true, "namespace": "reflow", "path": "/metrics"},
//	  "tracing": {"tracerName": "reflow"},
//	  "export": {
//	    "bucket": "snapshots",
//	    "prefix": "dev/",
//	    "region": "eu-west-1",
//	    "dir": "snapshots"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Server.Port)
package config
