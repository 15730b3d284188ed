package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=...".
// Version 在构建时通过 -ldflags 覆盖。
var Version = "dev"
