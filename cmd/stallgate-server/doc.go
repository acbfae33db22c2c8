// Command stallgate-server runs the marketplace service.
//
// One process serves two HTTP frontends, one for sellers and one for
// buyers, over shared stores. Configuration comes from a YAML file and
// STALLGATE_ environment variables; see internal/server/config for the
// available settings.
package main
