package types

// Command is an external tool invocation. A zero exit code is success, an
// exit code listed in ExpectedErrorExitCodes is a reported failure, and any
// other exit code is an error. A nil ExpectedErrorExitCodes means [1].
type Command struct {
	Executable             string
	Args                   []string
	Dir                    string
	ExpectedErrorExitCodes []int
	Silent                 bool
}
