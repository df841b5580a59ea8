// Package main provides the entry point for the octanecrawler CLI.
//
// Usage:
//
//	octanecrawler crawl [--host theinfo.org] [--path /]
//	octanecrawler links
//	octanecrawler ledger [path...]
//
// See --help for all available options.
package main

func main() {
	Execute()
}
