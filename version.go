package canvass

// Version is the release of the canvass module and CLI.
// Release builds override it with -ldflags "-X github.com/aretw0/canvass.Version=...".
var Version = "0.1.0-dev"
