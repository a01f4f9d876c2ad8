// Package util holds small helpers shared by config validation, logging
// and the HTTP layer: byte sizes, secret masking and pointer helpers for
// optional model fields.
package util
