package service

// Status classifies the outcome of a service operation.
type Status int

// Operation outcomes.
const (
	StatusOK Status = iota + 1
	StatusCreated
	StatusBadRequest
	StatusNotFound
	StatusNoContent
	StatusConflict
	StatusUnauthorized
	StatusInternalError
)

var statusNames = map[Status]string{
	StatusOK:            "OK",
	StatusCreated:       "Created",
	StatusBadRequest:    "BadRequest",
	StatusNotFound:      "NotFound",
	StatusNoContent:     "NoContent",
	StatusConflict:      "Conflict",
	StatusUnauthorized:  "Unauthorized",
	StatusInternalError: "InternalError",
}

// String returns the status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Succeeded reports whether the status is OK or Created.
func (s Status) Succeeded() bool {
	return s == StatusOK || s == StatusCreated
}

// Result is the uniform envelope returned by every service operation.
// Err is only set for StatusInternalError and is never serialized.
type Result[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
	Status  Status `json:"-"`
	Err     error  `json:"-"`
}

// Succeeded reports whether the operation completed.
func (r Result[T]) Succeeded() bool {
	return r.Status.Succeeded()
}

func success[T any](data T, message string) Result[T] {
	return Result[T]{Data: data, Message: message, Status: StatusOK}
}

func created[T any](data T, message string) Result[T] {
	return Result[T]{Data: data, Message: message, Status: StatusCreated}
}

func fail[T any](status Status, message string) Result[T] {
	return Result[T]{Message: message, Status: status}
}
