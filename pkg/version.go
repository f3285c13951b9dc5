package thankful

// Version is the current release of the thankful CLI and MCP server.
const Version = "0.1.0"
