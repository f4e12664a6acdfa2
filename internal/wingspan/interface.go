package wingspan

// Client defines the interface for interacting with the ChilliConnect API.
// This allows for mock implementations to be used in tests.
type Client interface {
	// GetMatch fetches the full current state of a single match.
	GetMatch(matchID string) (Match, error)
	// GetMatches lists the matches the authenticated player participates in.
	// Entries do not carry StateData; this backs the informational listing
	// command only.
	GetMatches() ([]Match, error)
}
