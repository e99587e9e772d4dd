// Package cylinder models gas cylinders and their verifiable identity.
//
// A cylinder carries two printed codes (identity on the body, tag on the
// tamper seal) and a server-side secret. The SHA-256 digest over serial,
// codes and secret is stored at registration; a row whose digest no longer
// matches has been altered outside the engine.
package cylinder
