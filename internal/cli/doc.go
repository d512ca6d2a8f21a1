// Package cli implements the httptestd command line interface.
package cli
