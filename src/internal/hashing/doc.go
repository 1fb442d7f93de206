// Package hashing provides SHA-256 checksum helpers.
//
// ChecksumReaderProxy hashes a stream while it is consumed, so the digest of
// a blocklist is known after a single read. The digest is printed next to a
// fresh signature and used as the ETag of the served blocklist.
//
//	content, sum, err := hashing.ReadFile(path)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("SHA-256: %s (%d bytes)\n", sum, len(content))
package hashing
