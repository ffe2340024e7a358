package auth

// Collector receives authentication engine events for metrics reporting
type Collector interface {
	// AttemptStarted is called when a context transitions out of initial
	AttemptStarted()

	// NameAssigned is called when a candidate name is resolved to a realm
	NameAssigned(realmName string)

	// AuthenticationSucceeded is called when an attempt completes successfully
	AuthenticationSucceeded(realmName string)

	// AuthenticationFailed is called when an attempt is marked failed
	AuthenticationFailed()

	// RequestHandled is called when the dispatcher answers a negotiation request
	RequestHandled(request string)

	// RequestDeclined is called when the dispatcher leaves a request unanswered
	RequestDeclined(request string)

	// RequestUnsupported is called when the dispatcher rejects an unknown request
	RequestUnsupported(request string)
}

// NoOpCollector is a metrics collector that does nothing
type NoOpCollector struct{}

func (n *NoOpCollector) AttemptStarted()                      {}
func (n *NoOpCollector) NameAssigned(realmName string)        {}
func (n *NoOpCollector) AuthenticationSucceeded(realm string) {}
func (n *NoOpCollector) AuthenticationFailed()                {}
func (n *NoOpCollector) RequestHandled(request string)        {}
func (n *NoOpCollector) RequestDeclined(request string)       {}
func (n *NoOpCollector) RequestUnsupported(request string)    {}
