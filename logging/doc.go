// Package logging configures the zerolog logger shared by the server, the MCP
// bridge and the command-line tools, and provides an HTTP request logging
// middleware for gorilla/mux routers.
package logging
