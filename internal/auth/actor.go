package auth

// Actor identifies who initiated a mutation. ClientID is set when the
// operation arrived over a websocket connection so optimistic broadcasts can
// skip the originating client; REST-initiated operations leave it empty.
type Actor struct {
	Identity
	ClientID string
}
