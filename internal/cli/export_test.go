package cli

// SetClipboard replaces the system clipboard for a test and returns a function
// restoring it. Tests using it must not run in parallel.
func SetClipboard(read func() (string, error), write func(string) error) func() {
	oldRead, oldWrite := readClipboard, writeClipboard
	readClipboard, writeClipboard = read, write
	return func() {
		readClipboard, writeClipboard = oldRead, oldWrite
	}
}
