// Package testing provides shared test doubles for the provisioning
// workflow.
//
// FakeProvider is a scripted platform.Provider: tests enumerate the agent
// statuses and command results each instance reports over time, so
// readiness polling and command dispatch can be exercised without a cloud
// account.
//
// Usage:
//
//	provider := &testing.FakeProvider{
//	    AgentStatuses: map[string][]platform.AgentStatus{
//	        "i-1": {testing.Offline(), testing.Online()},
//	    },
//	}
package testing
