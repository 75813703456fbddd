package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
	// Responsible self-assigns the task to its creator.
	Responsible bool `json:"responsible"`
}

// TaskUpdateRequest is a sparse patch: nil fields were absent from the body
// and must not touch the stored task.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}
