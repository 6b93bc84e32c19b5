package domain

// Zero overwrites b in place so decoded keys and plaintext buffers do not linger in memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
