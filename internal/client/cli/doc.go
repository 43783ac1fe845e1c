// Package cli provides the interactive TrackMate command-line client.
//
// It wires configuration, the local session database, the API client and
// the services into a REPL. A typical manager session:
//
//	otp            request a login code
//	verify         enter the code, which logs in and loads the roster
//	employees      list the roster
//	dept 42 HR     move employee 42 to HR
//	schedule 42    open 42's tasks
//	remove-task t1 then yes or no
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
