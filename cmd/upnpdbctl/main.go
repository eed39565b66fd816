// Command upnpdbctl is a manual-instantiation demo harness for the upnpdb
// adapter: it wires a Facade directly (no dependency-injection container,
// since none of this module's packages need one), discovers MediaServers on
// a network interface, and exposes browse/tags subcommands against them.
package main

func main() {
	execute()
}
