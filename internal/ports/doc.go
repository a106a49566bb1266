// Package ports discovers which processes hold the dev-server TCP ports and
// classifies them before anything is terminated.
//
// Port bindings are observed, not owned: the tool queries the OS (via lsof
// and ps) for the listener on a port and then decides what the owner is.
// Classification is a pure predicate over the owner's command line:
//
//   - MatchesKnownServer: the command line contains one of the role's
//     expected server fragments (uvicorn, vite, ...). Only these processes
//     may be terminated during port reclamation.
//   - LooksLikeBrowser: the command line matches a browser signature. These
//     get an advisory asking the operator to close the tab, never a signal.
//
// Anything that matches neither list is a foreign process and is left
// untouched with a warning.
package ports
