// Package config loads countdown preset files.
//
// A preset file is YAML:
//
//	defaults:
//	  interval: 1s
//	  mode: cascading
//	countdowns:
//	  - name: launch
//	    until: 2027-01-01T00:00:00Z
//	  - name: tea
//	    in: 3m
//	    interval: 250
//	    mode: total
//	    round: nearest
//
// Structural problems (no countdowns, missing names, duplicate names, an
// entry with neither or both of until and in) fail the load. Bad intervals,
// modes and roundings only produce a warning and fall back to the default.
package config
