package messages

// Session messages.
type (
	SessionRestoredMsg struct {
		Username string
		Token    string
	}

	LoggedOutMsg struct {
		Err error
	}
)
