// Package qrcode generates the QR access-pass images attached to visitor
// and worker notification emails, either as raw PNG bytes or as a data-URI
// string that can be embedded directly into HTML bodies.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode that adds
// input validation, sensible defaults, and the AccessPass helper encoding
// the scan format expected by guard stations.
//
// Errors are declared as package-level variables so they can be compared
// with errors.Is.
package qrcode
