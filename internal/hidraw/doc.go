// Package hidraw provides raw HID report I/O for vendor drivers.
//
// Access follows an open-per-transaction model: every report exchange
// opens the device node, performs the transfer and closes it again.
// Configuration traffic is rare and tiny, so the reopen cost is noise,
// and holding no file descriptor between transactions means a removed
// device fails the next transaction cleanly instead of poisoning a
// cached handle.
//
// # Usage
//
//	node := hidraw.NewNode("/dev/hidraw0")
//	node.SetLogger(log)
//
//	report, err := node.GetFeatureReport(0x04, 64)
//	if err != nil {
//	    return fmt.Errorf("reading profile report: %w", err)
//	}
//
// # Wire Dumps
//
// SetRawOutput(true) logs every transferred report as hex at debug
// level. The daemon enables this for --verbose=raw.
//
// # Thread Safety
//
// A Node carries no open handle and is safe to share, but drivers are
// only ever called from the reactor goroutine anyway.
package hidraw
