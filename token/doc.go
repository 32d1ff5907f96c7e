// Package token builds and parses the signed bearer payloads (access and refresh)
// used by the authentication engine, with strict validation semantics suitable for
// low-latency request paths.
package token
