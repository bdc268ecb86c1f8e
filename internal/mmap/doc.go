// Package mmap provides platform-specific helpers for reading plain
// (non-gzip) CIF files: a read-only memory mapping on unix, and a whole
// file read elsewhere. File.Open copies the mapped bytes into its own
// buffer before the mapping is released.
//
// Grounded on the teacher's internal/mmfile package (a unix syscall.Mmap
// path plus a plain os.ReadFile fallback for other platforms), generalized
// from reading a fixed REGF header to mapping a whole file.
package mmap
