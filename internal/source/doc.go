// Package source is the boundary with the table-definition decoder.
//
// A source unit is decoded into a generic tree of Values: scalars, lists and
// maps whose members keep their authored order. Decoding is delegated to
// gopkg.in/yaml.v3, working on yaml.Node trees so key order survives; since
// YAML is a superset of JSON, JSON units load the same way.
//
// Example unit:
//
//	plants:
//	  - Name: Marigold
//	    GrowthTimeSecs: 45
//	  - Name: Rose
//	    GrowthTimeSecs: 60
//	    Origin: {X: 1, Y: 2}
package source
