// Package eventlog reads combat event logs: gzip compressed files holding
// one JSON object per line
//
// Design choices:
//   - Stream with bufio.Scanner with a 32MB cap so oversized lines surface instead of hanging.
//   - Container damage (bad header, bad checksum, truncation, corrupt deflate data)
//     ends the file quietly with a warning; the events already yielded stand.
//   - A line that is not a JSON object is fatal for the file and names file and line.
package eventlog
