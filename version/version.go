package version

const (
	// SemVer is used as the fallback version of mojave-rpc when not using git
	// describe. It uses semantic versioning format.
	SemVer = "0.1.0"

	// RPCProtocol is the JSON-RPC protocol version implemented by the server.
	RPCProtocol = "2.0"
)

// GitCommitHash uses git rev-parse HEAD to find the commit hash which is
// helpful when working with the mojave-rpc binary. See Makefile.
var GitCommitHash = ""

// ClientVersion returns the version string reported by moj_clientVersion.
func ClientVersion() string {
	if GitCommitHash == "" {
		return "mojave-rpc/" + SemVer
	}
	return "mojave-rpc/" + SemVer + "+" + GitCommitHash
}
