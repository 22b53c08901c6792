// Package cli implements the chimney command line: cobra commands that load
// configuration, build an httpclient.Client and send or print one request.
package cli
