package app

// Operation names for the CLI commands an App serves. The name is
// stamped into the log op-id and decides whether the snapshot store has
// to be unlocked at startup.
const (
	OpScan    = "scan"
	OpReport  = "report"
	OpHistory = "history"
	OpWatch   = "watch"
)

// readsSnapshots reports whether the operation loads snapshot history
// from the store. Scan and watch regenerate the report after
// persisting, so they read history too; only the ledger-backed history
// command never touches the store. When encryption is enabled, reading
// operations need the private key unlocked.
func readsSnapshots(operation string) bool {
	switch operation {
	case OpScan, OpReport, OpWatch:
		return true
	}
	return false
}
