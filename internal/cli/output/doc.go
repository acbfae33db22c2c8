// Package output provides output formatting for stallgate-cli.
//
// Three formats are supported:
//
//   - table: tabwriter-aligned columns, the default for terminals
//   - json: indented JSON
//   - yaml: YAML via gopkg.in/yaml.v3
package output
