// Package audit holds the append-only records written alongside every order
// and cylinder change, and the paging types used to read them back.
package audit
