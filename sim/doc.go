// Package sim provides the concurrent resource-contention engine for the
// CyberFlux café simulation.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - resource.go: ResourcePool, the bounded counting primitive, and the Unit guard
//   - protocol.go: the two acquisition protocols (all-or-nothing vs. ordered-conflicting)
//   - session.go: the per-client lifecycle (Arrived → Acquiring → Serving → Released | Abandoned)
//
// # Architecture
//
// The ArrivalDriver spawns ClientSessions as goroutines over a bounded open
// window. Each session runs the configured AcquisitionProtocol against the
// three shared ResourcePools (workstations, VR headsets, seats), simulates a
// usage period on success, releases everything in reverse acquisition order,
// and reports exactly once to the StatsAggregator. The Simulator wires the
// pieces together and blocks until every spawned session is terminal before
// producing the final SimulationReport.
//
// # Key Interfaces
//
//   - AcquisitionProtocol: acquire a session's required resource set, or abandon
//   - Category: closed set of client variants, each declaring its own
//     mandatory/optional resource profile and conflicting acquisition order
package sim
