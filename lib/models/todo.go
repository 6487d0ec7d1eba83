package models

// TodoItem represents a single todo entry scoped to its owner.
// UserID is the DynamoDB partition key, TodoID the sort key.
// CreatedAt and AttachmentURL are assigned at creation and never mutated.
type TodoItem struct {
	UserID        string `json:"userId" dynamodbav:"userId"`
	TodoID        string `json:"todoId" dynamodbav:"todoId"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"`
	Name          string `json:"name" dynamodbav:"name"`
	DueDate       string `json:"dueDate" dynamodbav:"dueDate"`
	Done          bool   `json:"done" dynamodbav:"done"`
	AttachmentURL string `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
}

// CreateTodoRequest is the body of POST /todos
type CreateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate" validate:"required"`
}

// UpdateTodoRequest is the body of PATCH /todos/{todoId}.
// All three fields are required; there is no partial-field patch.
// Done is a pointer so an explicit false passes the required check.
type UpdateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate" validate:"required"`
	Done    *bool  `json:"done" validate:"required"`
}

// TodoUpdate carries the three mutable fields down to the data layer
type TodoUpdate struct {
	Name    string
	DueDate string
	Done    bool
}

// TodoListResponse wraps GET /todos results
type TodoListResponse struct {
	Items []TodoItem `json:"items"`
}

// UploadURLResponse wraps POST /todos/{todoId}/attachment results
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}
