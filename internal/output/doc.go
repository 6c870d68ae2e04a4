// Package output renders command results for people and for agents.
//
// Every command writes through a Printer. With --json the Printer emits one
// indented JSON document per result and errors become {"error", "code"}
// objects on stdout, so an agent never has to scrape text. Without --json it
// writes lipgloss-styled text, with colour dropped when stdout is not a
// terminal or --color=never is given:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout())).
//		WithStderr(cmd.ErrOrStderr())
//	printer.Mark(output.MarkOK, "Pattern Links", "3 pattern link(s) resolve")
//
// Errors carry a process exit code:
//
//	0  success
//	1  user error: bad flags, invalid config, document not found
//	2  system error: a read or write failed
//	3  conflict: the target already exists
//
// Build them with NewUserError, NewSystemErrorWithCause and friends, and
// read the code back with GetExitCode.
package output
