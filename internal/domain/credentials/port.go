package credentials

// Reader is the read side of a caller's session.
type Reader interface {
	Get(field string) (string, bool)
}

// Session is a caller's session-scoped key/value store.
type Session interface {
	Reader
	Set(field, value string)
	Delete(field string)
}
