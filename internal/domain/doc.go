// Package domain contains the entities and value objects of the learning
// navigator: learning sessions and their accumulated step data, sub-tasks,
// cognitive maps, knowledge cards and the closed assessment enumerations the
// metacognitive flow is driven by. It has no knowledge of storage or transport.
package domain
