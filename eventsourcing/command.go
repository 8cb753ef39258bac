package eventsourcing

// Command is an immutable value object carrying caller intent: the identity
// of the aggregate it addresses plus the command's parameters. Commands never
// mutate state directly; they are arguments to exactly one aggregate method.
type Command interface {
	AggregateID() string
}
