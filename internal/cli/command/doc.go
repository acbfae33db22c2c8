// Package command provides CLI command definitions for stallgate-cli.
//
// The tool talks to one marketplace frontend at a time. Point --server
// at the seller listener for seller commands and at the buyer listener
// for shop commands; the server locks each session to the frontend it
// was opened on.
package command
