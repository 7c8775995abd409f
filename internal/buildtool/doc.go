// Package buildtool invokes the external native build tool.
//
// The invocation is always "build the tree in Dir" with a native parallelism
// flag forwarded after "--". A non-zero exit status is reported in Result and
// is not an error; only failing to launch the tool is.
package buildtool
