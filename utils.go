package ecs

import "strings"

// extendByteSlice extends s by n bytes, reallocating with amortized doubling
// growth if necessary. The typed-blob-vector growth policy is built on this.
func extendByteSlice(s []byte, n int) []byte {
	newLen := len(s) + n
	if cap(s) >= newLen {
		return s[:newLen]
	}
	newCap := max2(2*cap(s), newLen)
	ns := make([]byte, newLen, newCap)
	copy(ns, s)
	return ns
}

// joined renders parts separated by sep, used to build the diagnostic
// listings fatal errors surface (duplicate bundle components, unknown
// table columns).
func joined(sep string, parts []string) string {
	return strings.Join(parts, sep)
}
