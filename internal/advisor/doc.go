// Package advisor routes user messages to a reply.
//
// Greetings, farewells and off-topic messages get a fixed reply. Messages about
// computer science go to the generative service, and its answer is streamed into
// a reply turn that was reserved in the log before the call.
//
// Flow:
//
//	Received -> Greeted | FarewellSaid | OffTopic
//	Received -> Streaming -> Done | Failed
//
// Only one live answer per Advisor is expected at a time; concurrent Send calls
// against the same session are not coordinated.
package advisor
