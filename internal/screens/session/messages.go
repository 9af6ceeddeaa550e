package session

// bankLoadedMsg is sent when the controller has finished loading the bank.
type bankLoadedMsg struct {
	Err error
}
