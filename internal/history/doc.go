// Package history persists an audit trail of compiled commands in a
// local SQLite database.
//
// Every compile request is recorded with its resolved command line, or
// with the validation failure when no command was produced. The record
// is what operators consult when a cluster job misbehaves and the
// question is "what exactly did we submit".
package history
