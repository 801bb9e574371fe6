// Package application provides dependency wiring for the command-line tool.
// It builds the solve and benchmark commands on top of the solver packages
// and assembles storage, history, metrics, handlers, routers and the HTTP
// server for the serve command, keeping the main package focused on CLI
// parsing and orchestration.
package application
