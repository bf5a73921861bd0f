// Package services contains the core application services implementing
// the driving ports. Services orchestrate domain logic using driven
// ports and contain no adapter-specific code.
package services
