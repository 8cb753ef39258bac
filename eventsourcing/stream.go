package eventsourcing

// StreamName derives the event-store key for one aggregate instance.
//
// The format is "<TypeName>$<id>", case-sensitive, and is used verbatim as the
// store key. The type names themselves ("Orders::Order" and friends) are kept
// byte-compatible with the system this replaces so that existing streams remain
// readable.
func StreamName(typeName, id string) string {
	return typeName + "$" + id
}
