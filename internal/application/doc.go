// Package application wires settings, logging and the loader together and
// implements the confighelper commands, keeping the main package focused on
// command-line parsing.
package application
