// Package signing produces and checks detached Ed25519 signatures over the
// exact bytes of the blocklist.
//
// The secret is a 32-byte Ed25519 seed supplied base64-encoded through an
// environment variable (or a dotenv file when the variable is unset). The
// seed never leaves process memory: only the signature and the derived
// public key are written or printed.
//
// A signature is stored next to the blocklist as a two-line text file:
//
//	algorithm: ed25519
//	signature: <base64 of 64 bytes>
//
// Signing always re-verifies the fresh signature before the file is written.
//
// # Example Usage
//
//	seed, err := signing.LoadSeedFromEnv("BLOCKLIST_SIGNING_KEY", ".env")
//	if err != nil {
//	    return err
//	}
//	signer, err := signing.NewSigner(seed)
//	if err != nil {
//	    return err
//	}
//	res, err := signer.SignFile(blocklistPath, blocklistPath+".sig")
package signing
