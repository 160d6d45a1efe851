// Package config loads runtime configuration for the choirhub terminal client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the API server
//	-d string   local state directory
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "state_dir": ".choirhub",
//	  "http_timeout": "10s",
//	  "online_check_interval": "5s"
//	}
package config
