package fastparser

// UnmarshalRequest parses data as one HTTP/1.x request. The parser lives on
// the stack.
func UnmarshalRequest(data []byte) (*Request, error) {
	var p Parser
	initParser(&p, data)
	return p.ParseRequest()
}

// Validate reports whether data is a well-formed request.
func Validate(data []byte) error {
	_, err := UnmarshalRequest(data)
	return err
}
