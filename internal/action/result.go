package action

// Status is the tagged outcome of a single action execution.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "SUCCESS"
	StatusWaiting Status = "WAITING"
	StatusError   Status = "ERROR"
)

// Error codes produced by the engine itself. Actions are free to use their
// own codes for business errors.
const (
	// CodeActionNotFound marks a step whose name has no registered action.
	CodeActionNotFound = "ACTION-001"

	// CodeRuntime marks a step whose action failed outside its modeled result.
	CodeRuntime = "RUNTIME-001"

	// CodeChainTooLong marks a run that hit the executor's step limit.
	CodeChainTooLong = "CHAIN-001"
)

// Result is the outcome of executing an action against a target.
//
// Exactly one of the success payload (Target) or the error payload (Code,
// Message) is populated; a waiting result carries neither. Use [Success],
// [SuccessWith], [Waiting] and [Error] to build results so that invariant holds.
type Result[T any] struct {
	Status  Status
	Target  T
	Code    string
	Message string
}

// Success returns a successful result without a target payload.
func Success[T any]() Result[T] {
	return Result[T]{Status: StatusSuccess}
}

// SuccessWith returns a successful result carrying the (possibly mutated) target.
func SuccessWith[T any](target T) Result[T] {
	return Result[T]{Status: StatusSuccess, Target: target}
}

// Waiting returns a result that pauses the chain until it is resumed.
func Waiting[T any]() Result[T] {
	return Result[T]{Status: StatusWaiting}
}

// Error returns a failed result with the given code and message.
func Error[T any](code, message string) Result[T] {
	return Result[T]{Status: StatusError, Code: code, Message: message}
}

// IsSuccess reports whether the result status is SUCCESS.
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }

// IsWaiting reports whether the result status is WAITING.
func (r Result[T]) IsWaiting() bool { return r.Status == StatusWaiting }

// IsError reports whether the result status is ERROR.
func (r Result[T]) IsError() bool { return r.Status == StatusError }

// ResultJSON is the wire shape of a [Result].
type ResultJSON struct {
	Status       Status `json:"status"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// JSON converts the result to its wire shape. The target payload is not
// part of the wire format.
func (r Result[T]) JSON() ResultJSON {
	out := ResultJSON{Status: r.Status}
	if r.IsError() {
		out.ErrorCode = r.Code
		out.ErrorMessage = r.Message
	}
	return out
}
