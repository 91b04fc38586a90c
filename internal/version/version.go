package version

// Version is the current Link Weaver release
var Version = "0.3.0"
