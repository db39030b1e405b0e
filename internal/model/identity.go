package model

import "strconv"

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

// IdentityKey of a stored document.
func (d StoredDocument) IdentityKey() string {
	return IdentityKey(d.Name, d.LastModifiedMs, d.ByteSize)
}

// IdentityKey of a candidate file.
func (f File) IdentityKey() string {
	return IdentityKey(f.Name, f.LastModifiedMs, f.Size)
}
