// Package main hosts the slidecast CLI entrypoint and command graph.
//
// The Cobra-based command tree reads a capsule structure document from
// stdin, renders it through the production package, and reports progress
// on stdout as one fraction per line followed by the path of the produced
// file. Logs go to stderr. Besides production the CLI offers a dry-run
// plan, asset probing, an environment check and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
